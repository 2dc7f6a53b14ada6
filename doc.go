// Package main provides the entry point for the Studio site and CMS.
// It serves the public marketing page, a basic auth protected CMS editor
// and a JSON API over a gorm backed document store. Changes to the general
// settings are pushed to open pages as CSS variables over a websocket.
package main
