package vanilla

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig validates manifest through a go-theme registry and resolves the
// renderer configuration for variant. Variant tokens, templates and asset
// files override the base manifest. Every token is also exposed as a CSS
// custom property named "--<token>".
func ThemeConfig(manifest *theme.Manifest, variant string) (*theme.RendererConfig, error) {
	if manifest == nil {
		return nil, nil
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("vanilla: register theme %q: %w", manifest.Name, err)
	}

	tokens := copyStringMap(manifest.Tokens)
	partials := copyStringMap(manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := copyStringMap(manifest.Assets.Files)

	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("vanilla: theme %q has no variant %q", manifest.Name, variant)
		}
		tokens = mergeStringMap(tokens, v.Tokens)
		partials = mergeStringMap(partials, v.Templates)
		files = mergeStringMap(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: func(key string) string {
			file := files[key]
			if file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
		},
	}, nil
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStringMap(base, over map[string]string) map[string]string {
	for key, value := range over {
		base[key] = value
	}
	return base
}

// DefaultManifest is the built-in theme. Its tokens match the custom
// properties declared by the embedded stylesheet.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "loanform",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#1f6feb",
			"danger":  "#d1242f",
			"success": "#1a7f37",
			"surface": "#ffffff",
			"text":    "#1f2328",
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"brand":   "#4493f8",
					"surface": "#0d1117",
					"text":    "#e6edf3",
				},
			},
		},
	}
}
