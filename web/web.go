// Package web embeds the HTML templates and static assets of the web UI.
package web

import "embed"

// Templates holds one layout plus one file per screen.
//
//go:embed templates/*.html
var Templates embed.FS

// Static holds css and the bundled category images.
//
//go:embed static
var Static embed.FS
