package views

import "embed"

// FS holds the HTML templates. Every page is parsed together with the
// layout and the shared partials.
//
//go:embed layout.html posts/*.html shared/*.html
var FS embed.FS
