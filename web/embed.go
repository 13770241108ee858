// Package web embeds the HTML templates and static assets served by the
// prediction UI.
package web

import "embed"

// TemplatesFS contains the embedded HTML templates.
//
//go:embed all:templates
var TemplatesFS embed.FS

// StaticFS contains the embedded static assets.
//
//go:embed all:static
var StaticFS embed.FS
