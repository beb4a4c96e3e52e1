package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
)

// Handler renders a report to its destination.
type Handler interface {
	Handle(report *domain.Report) error
}

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        28,
		ValueWidth:       18,
		UnitWidth:        10,
		DescriptionWidth: 54,
	}
}

// Reporter prints reports as fixed width tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const tableTemplate = `
{{.Title}}
{{period .Period}}
Generated: {{.Generated.Format "2006-01-02 15:04:05 MST"}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}
{{separator}}
{{formatRow "Name" "Value" "Unit" "Description"}}
{{separator}}
{{range .Details}}{{formatRow .Name .Value .Unit .Description}}
{{end}}{{separator}}
{{end}}`

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"period": formatPeriod,
		"formatRow": func(name string, value interface{}, unit string, desc string) string {
			return fmt.Sprintf("| %-*s | %-*v | %-*s | %-*s |",
				c.config.NameWidth, name,
				c.config.ValueWidth, value,
				c.config.UnitWidth, unit,
				c.config.DescriptionWidth, desc)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(tableTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// formatPeriod prints the covered window, leaving open bounds unnamed.
func formatPeriod(p domain.TimePeriod) string {
	const layout = "2006-01-02"
	switch {
	case p.Start.IsZero() && p.End.IsZero():
		return "Period: all time"
	case p.Start.IsZero():
		return "Period: up to " + p.End.Format(layout)
	case p.End.IsZero():
		return "Period: from " + p.Start.Format(layout)
	}
	return fmt.Sprintf("Period: %s to %s", p.Start.Format(layout), p.End.Format(layout))
}
