package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// CMSLayout is the layout of the editor pages.
	CMSLayout = "layouts/cms"

	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes every JSON endpoint.
	APIPath = RootPath + "api"

	// ErrNilDepsFatalLogMsg is used if app, cfg or a required dependency is nil.
	ErrNilDepsFatalLogMsg = "app, cfg or a handler dependency is nil"
)
