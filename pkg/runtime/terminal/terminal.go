package terminal

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/de-tools/booking-atlas/pkg/services/config"
	"github.com/de-tools/booking-atlas/pkg/services/source"
	s3store "github.com/de-tools/booking-atlas/pkg/store/s3"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	runtime *commands.Runtime
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	// Registry opens the warehouse named by --profile.
	Registry source.Registry
	Output   io.Writer
	Errors   io.Writer
	// NewUploader overrides the S3 uploader used by export.
	NewUploader commands.UploaderFactory
	// LoadConfig reads the file named by --config; config.LoadConfig by default.
	LoadConfig func(path string) (*config.AppConfig, error)
	Now        func() time.Time
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Registry == nil {
		opts.Registry = source.NewDefaultRegistry()
	}
	if opts.NewUploader == nil {
		opts.NewUploader = NewS3Uploader
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.LoadConfig
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	rt := &commands.Runtime{
		Output:       opts.Output,
		Errors:       opts.Errors,
		NewUploader:  opts.NewUploader,
		Now:          opts.Now,
		LoadProfiles: loadProfiles,
		LoadConfig:   opts.LoadConfig,
	}
	rt.Connect = func(ctx context.Context, f commands.Flags) (commands.Analyzer, func() error, error) {
		src, err := openSource(ctx, opts.Registry, f)
		if err != nil {
			return nil, nil, err
		}
		return analytics.NewService(src, analytics.WithClock(opts.Now)), src.Close, nil
	}

	cli := &CLI{runtime: rt}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs replaces os.Args for the next Execute.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "booking-atlas",
		Short:         "Booking analytics reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := &cli.runtime.Flags
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.ConfigPath, "config", "c", "", "Path to the YAML app config; BOOKING_ATLAS_* variables override it")
	flags.StringVar(&f.DbPath, "db", "booking-atlas.db", "Path to the embedded DuckDB database")
	flags.StringVarP(&f.Profile, "profile", "p", "", "Read bookings from this warehouse profile instead of --db")
	flags.StringVar(&f.ProfilesPath, "profiles", "profiles.ini", "Path to the data source profiles file")
	flags.StringVar(&f.StartDate, "start-date", "", "Only bookings created on or after this date (YYYY-MM-DD)")
	flags.StringVar(&f.EndDate, "end-date", "", "Only bookings created on or before this date (YYYY-MM-DD)")
	flags.StringArrayVarP(&f.Filters, "filter", "f", nil, "Filter as key=value, e.g. status=active or min_amount=100000")
	flags.StringVar(&f.GroupBy, "group-by", "month", "Trend bucket: month, quarter or year")
	flags.StringVarP(&f.Format, "format", "o", commands.FormatTable, "Output format: table, text, json or csv")
	flags.BoolVarP(&f.Verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(commands.NewKPIsCmd(cli.runtime))
	cmd.AddCommand(commands.NewTrendsCmd(cli.runtime))
	cmd.AddCommand(commands.NewDistributionCmd(cli.runtime))
	cmd.AddCommand(commands.NewChartCmd(cli.runtime))
	cmd.AddCommand(commands.NewExportCmd(cli.runtime))
	cmd.AddCommand(commands.NewProfilesCmd(cli.runtime))

	return cmd
}

// openSource resolves --profile through the profiles file, or opens the embedded store.
func openSource(ctx context.Context, registry source.Registry, f commands.Flags) (source.Source, error) {
	if f.Profile != "" {
		profiles, err := config.NewRegistry(f.ProfilesPath)
		if err != nil {
			return nil, err
		}
		return source.Open(ctx, registry, profiles, f.Profile)
	}

	return source.DuckDBFactory(ctx, domain.SourceProfile{
		Name:     "embedded",
		Type:     domain.ProfileTypeDuckDB,
		Settings: map[string]string{"path": f.DbPath},
	})
}

func loadProfiles(path string) (commands.ProfileLister, error) {
	return config.NewRegistry(path)
}

// NewS3Uploader resolves AWS credentials from the default chain.
func NewS3Uploader(ctx context.Context, bucket, region, prefix string) (commands.Uploader, error) {
	cfg, err := s3store.LoadConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return s3store.NewUploaderFromConfig(cfg, bucket, prefix)
}
