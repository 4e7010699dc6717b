package pagexml

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/pagexml.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("pagexml.tmpl").Funcs(template.FuncMap{
	"attr":           escapeAttr,
	"text":           escapeText,
	"namespace":      func() string { return Namespace },
	"xsiNamespace":   func() string { return XSINamespace },
	"schemaLocation": func() string { return SchemaLocation },
}).ParseFS(templateFS, "templates/pagexml.tmpl"))

// GeneratePageXML renders a PAGE-XML document.
// Output uses tab indentation, self-closed empty elements and a fixed
// attribute order so that files diff cleanly against existing datasets.
func GeneratePageXML(doc *PcGts) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("PAGE-XML document is nil")
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("error rendering PAGE-XML template: %w", err)
	}
	return buf.Bytes(), nil
}
