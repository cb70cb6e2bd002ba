package uischema

import (
	"embed"
	"io/fs"
)

//go:embed schemas/*
var embeddedSchema embed.FS

// EmbeddedFS returns the bundled UI schema overlay for the loan form.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSchema, "schemas")
	if err != nil {
		panic(err)
	}
	return sub
}
