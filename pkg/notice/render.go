package notice

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"os"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.txt templates/*.html
var defaultTemplates embed.FS

const templateName = "internal_initial"

// Renderer renders the text and html notice bodies. Rendering is pure: both
// templates are parsed up front, so Render never does I/O.
type Renderer struct {
	txt  *texttemplate.Template
	html *htmltemplate.Template
}

// NewRenderer loads templates from dir, or the embedded defaults when dir is
// empty. dir must contain internal_initial.txt and internal_initial.html.
func NewRenderer(dir string) (*Renderer, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(defaultTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	txt, err := texttemplate.New(templateName + ".txt").
		Funcs(sprig.FuncMap()).
		ParseFS(fsys, templateName+".txt")
	if err != nil {
		return nil, fmt.Errorf("could not parse text template: %w", err)
	}

	html, err := htmltemplate.New(templateName + ".html").
		Funcs(sprig.HtmlFuncMap()).
		ParseFS(fsys, templateName+".html")
	if err != nil {
		return nil, fmt.Errorf("could not parse html template: %w", err)
	}

	return &Renderer{txt: txt, html: html}, nil
}

// Render produces the text and html bodies for the derived fields.
func (r *Renderer) Render(d *DerivedFields) (string, string, error) {
	var txtBuf bytes.Buffer
	if err := r.txt.ExecuteTemplate(&txtBuf, templateName+".txt", d); err != nil {
		return "", "", fmt.Errorf("could not render text notice: %w", err)
	}

	var htmlBuf bytes.Buffer
	if err := r.html.ExecuteTemplate(&htmlBuf, templateName+".html", d); err != nil {
		return "", "", fmt.Errorf("could not render html notice: %w", err)
	}

	return txtBuf.String(), htmlBuf.String(), nil
}
