package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/de-tools/booking-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	FormatTable = "table"
	FormatText  = "text"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Analyzer is the reporting surface the commands drive.
type Analyzer interface {
	KPISummary(ctx context.Context, q analytics.Query) (domain.KPISummary, error)
	Trends(ctx context.Context, q analytics.Query) ([]domain.TrendPoint, error)
	Distribution(ctx context.Context, dim domain.Dimension, q analytics.Query) ([]domain.CategoryPoint, error)
	Chart(ctx context.Context, kind analytics.ChartKind, q analytics.Query) (domain.Chart, error)
	Export(ctx context.Context, kind analytics.ExportKind, format analytics.ExportFormat, q analytics.Query) (*analytics.Export, error)
}

// Uploader stores a rendered export and returns where it went.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
	Prefix() string
}

type UploaderFactory func(ctx context.Context, bucket, region, prefix string) (Uploader, error)

// ProfileLister lists the profiles of a profiles file.
type ProfileLister interface {
	GetProfiles(ctx context.Context) ([]domain.SourceProfile, error)
}

// Flags holds the persistent flags shared by every command.
type Flags struct {
	ConfigPath   string
	DbPath       string
	Profile      string
	ProfilesPath string
	StartDate    string
	EndDate      string
	Filters      []string
	GroupBy      string
	Format       string
	Verbose      bool
}

// Runtime carries the flags and collaborators commands need.
type Runtime struct {
	Flags  Flags
	Output io.Writer
	// Errors receives log lines; stderr when nil.
	Errors io.Writer
	// Connect opens the analyzer selected by the flags. The returned func releases it.
	Connect      func(ctx context.Context, f Flags) (Analyzer, func() error, error)
	LoadProfiles func(path string) (ProfileLister, error)
	NewUploader  UploaderFactory
	// LoadConfig reads the app config named by --config. Export uses it for S3 defaults.
	LoadConfig func(path string) (*config.AppConfig, error)
	Now        func() time.Time
}

func (rt *Runtime) now() time.Time {
	if rt.Now != nil {
		return rt.Now()
	}
	return time.Now()
}

func (rt *Runtime) logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if rt.Flags.Verbose {
		level = zerolog.DebugLevel
	}
	out := rt.Errors
	if out == nil {
		out = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(level).With().Timestamp().Logger()
}

// Query builds the analytics query from the date, filter and group-by flags.
func (rt *Runtime) Query() (analytics.Query, error) {
	var q analytics.Query
	if rt.Flags.StartDate != "" {
		start, err := adapters.ParseDateBound(rt.Flags.StartDate, false)
		if err != nil {
			return q, fmt.Errorf("invalid --start-date: %w", err)
		}
		q.Range.Start = &start
	}
	if rt.Flags.EndDate != "" {
		end, err := adapters.ParseDateBound(rt.Flags.EndDate, true)
		if err != nil {
			return q, fmt.Errorf("invalid --end-date: %w", err)
		}
		q.Range.End = &end
	}

	params := url.Values{}
	for _, f := range rt.Flags.Filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return q, fmt.Errorf("invalid --filter %q, expected key=value", f)
		}
		params.Add(strings.TrimSpace(key), value)
	}
	criteria, err := analytics.ParseCriteria(params)
	if err != nil {
		return q, err
	}
	q.Criteria = criteria
	q.Granularity = analytics.ParseGranularity(rt.Flags.GroupBy)
	return q, nil
}

// run opens the analyzer, builds the query and hands both to fn.
func (rt *Runtime) run(cmd *cobra.Command, fn func(ctx context.Context, a Analyzer, q analytics.Query) error) error {
	if err := validateFormat(rt.Flags.Format); err != nil {
		return err
	}
	q, err := rt.Query()
	if err != nil {
		return err
	}

	logger := rt.logger()
	ctx := logger.WithContext(cmd.Context())

	analyzer, release, err := rt.Connect(ctx, rt.Flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn().Err(err).Msg("failed to close data source")
		}
	}()

	return fn(ctx, analyzer, q)
}

// output is everything a command can print; render picks by --format.
type output struct {
	report *domain.Report
	json   interface{}
	rows   analytics.Result
}

func (rt *Runtime) render(o output) error {
	switch rt.Flags.Format {
	case FormatText:
		return export.NewTextReporter(rt.Output).Handle(o.report)
	case FormatJSON:
		enc := json.NewEncoder(rt.Output)
		enc.SetIndent("", "  ")
		return enc.Encode(o.json)
	case FormatCSV:
		if o.rows == nil {
			return fmt.Errorf("csv output is not available for this command")
		}
		return analytics.WriteCSV(rt.Output, o.rows)
	default:
		return export.NewReporter(rt.Output).Handle(o.report)
	}
}

func validateFormat(format string) error {
	switch format {
	case "", FormatTable, FormatText, FormatJSON, FormatCSV:
		return nil
	}
	return fmt.Errorf("unsupported --format %q, use table, text, json or csv", format)
}
