package template

import (
	"io"
)

// TemplateRenderer is the seam the HTML page renders through. GlobalContext
// seeds values shared by every render, such as page chrome.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
