package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{name: "empty", in: ""},
		{name: "emphasis", in: "**bold** and *it*", contains: []string{"<strong>bold</strong>", "<em>it</em>"}},
		{name: "script removed", in: "hi <script>alert(1)</script>", contains: []string{"hi"}, excludes: []string{"<script"}},
		{name: "javascript link removed", in: "[x](javascript:alert(1))", excludes: []string{"javascript:"}},
		{name: "external link", in: "[site](https://example.com)", contains: []string{`href="https://example.com"`, `rel="nofollow`}},
		{name: "table", in: "| a |\n|---|\n| b |", contains: []string{"<table>", "<td>b</td>"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := string(Render(tc.in))

			if tc.in == "" {
				assert.Empty(t, out)
			}

			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}

			for _, s := range tc.excludes {
				assert.False(t, strings.Contains(out, s), "unexpected %q in %q", s, out)
			}
		})
	}
}
