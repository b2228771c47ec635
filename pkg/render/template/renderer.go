package template

import "io"

// TemplateRenderer is the seam section renderers and the document composer
// render through. Names are resolved against the engine's fs.FS; content
// rendered through RenderString is parsed on every call.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
