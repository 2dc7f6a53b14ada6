// Package navigation builds the editor menu and breadcrumbs.
package navigation

// Crumb is one breadcrumb link.
type Crumb struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one entry of the editor side menu.
type MenuItem struct {
	Key    string
	Title  string
	URL    string
	Active bool
}

// Context is the navigation binding of an editor page.
type Context struct {
	PageTitle string
	Active    string
	Menu      []MenuItem
	Crumbs    []Crumb
}

// Section of the editor menu.
type Section struct {
	Key   string
	Title string
	URL   string
}

// NewContext creates a context with the menu entry key marked active and a
// breadcrumb trail ending at that entry.
func NewContext(sections []Section, key, homeURL string) *Context {
	ctx := &Context{Active: key, Menu: make([]MenuItem, 0, len(sections))}

	ctx.Crumbs = append(ctx.Crumbs, Crumb{Title: "Site", URL: homeURL})

	for _, s := range sections {
		active := s.Key == key

		ctx.Menu = append(ctx.Menu, MenuItem{Key: s.Key, Title: s.Title, URL: s.URL, Active: active})

		if active {
			ctx.PageTitle = s.Title
			ctx.Crumbs = append(ctx.Crumbs, Crumb{Title: s.Title, URL: s.URL, Active: true})
		}
	}

	return ctx
}

// Add appends a trailing breadcrumb and makes it the active one.
func (c *Context) Add(title, url string) *Context {
	for i := range c.Crumbs {
		c.Crumbs[i].Active = false
	}

	c.Crumbs = append(c.Crumbs, Crumb{Title: title, URL: url, Active: true})
	c.PageTitle = title

	return c
}

// IsActive reports whether key is the active menu entry.
func (c *Context) IsActive(key string) bool {
	return c.Active == key
}
