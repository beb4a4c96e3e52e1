package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
)

// TextReporter outputs reports as plain indented text
type TextReporter struct {
	writer io.Writer
}

func NewTextReporter(writer io.Writer) *TextReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TextReporter{writer: writer}
}

const textTemplate = `
{{.Title}}
{{period .Period}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}{{range .Details}}- {{.Name}}: {{.Value}}{{if .Unit}} {{.Unit}}{{end}}
{{if .Description}}  {{.Description}}
{{end}}{{end}}{{end}}`

func (c *TextReporter) Handle(report *domain.Report) error {
	t, err := template.New("report").Funcs(template.FuncMap{"period": formatPeriod}).Parse(textTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
