package web

import (
	"embed"
	"io/fs"
	"path"
)

var (
	// site and CMS assets served below /static
	//go:embed static/*
	embeddedStaticFiles embed.FS

	// page layouts, site pages and CMS forms
	//go:embed templates/layouts/* templates/site/* templates/cms/*
	embeddedTemplates embed.FS
)

// templateFS roots the embedded templates so template names read
// "site/home" instead of "templates/site/home".
type templateFS struct {
	content embed.FS
}

// Open opens name below the templates directory.
func (t templateFS) Open(name string) (fs.File, error) {
	return t.content.Open(path.Join("templates", name))
}
