package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// StylesheetName is the embedded stylesheet served under the assets prefix.
const StylesheetName = "loanform.css"

// StylesheetAssetKey is the go-theme asset key that overrides the stylesheet.
const StylesheetAssetKey = "vanilla.stylesheet"

// TemplatesFS exposes the embedded page templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded CSS so callers can serve it over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
