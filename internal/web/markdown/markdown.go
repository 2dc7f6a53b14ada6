// Package markdown renders editor supplied markdown to sanitized HTML.
package markdown

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	once     sync.Once
	renderer goldmark.Markdown
	policy   *bluemonday.Policy
)

func setup() {
	once.Do(func() {
		renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))
		policy = bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// Render converts src to HTML and strips anything outside the user content policy.
func Render(src string) template.HTML {
	if src == "" {
		return ""
	}

	setup()

	var buf bytes.Buffer
	if err := renderer.Convert([]byte(src), &buf); err != nil {
		log.Warn().Err(err).Msg("markdown conversion failed, rendering escaped text")

		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec
	}

	return template.HTML(policy.SanitizeBytes(buf.Bytes())) //nolint:gosec
}
