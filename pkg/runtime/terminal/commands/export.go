package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	s3store "github.com/de-tools/booking-atlas/pkg/store/s3"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	dataType string
	bucket   string
	region   string
	prefix   string
}

func NewExportCmd(rt *Runtime) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a data set as JSON or CSV, optionally to S3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := analytics.ParseExportKind(flags.dataType)
			if err != nil {
				return err
			}
			if err := flags.applyConfig(cmd, rt); err != nil {
				return err
			}
			format := analytics.ExportFormatJSON
			contentType, extension := "application/json", "json"
			if rt.Flags.Format == FormatCSV {
				format = analytics.ExportFormatCSV
				contentType, extension = "text/csv", "csv"
			}

			return rt.run(cmd, func(ctx context.Context, a Analyzer, q analytics.Query) error {
				e, err := a.Export(ctx, kind, format, q)
				if err != nil {
					return err
				}

				var body bytes.Buffer
				if format == analytics.ExportFormatCSV {
					err = analytics.WriteCSV(&body, e.Rows)
				} else {
					enc := json.NewEncoder(&body)
					enc.SetIndent("", "  ")
					err = enc.Encode(adapters.MapExportDomainToApi(e))
				}
				if err != nil {
					return fmt.Errorf("failed to render export: %w", err)
				}

				if flags.bucket == "" {
					_, err = rt.Output.Write(body.Bytes())
					return err
				}
				if rt.NewUploader == nil {
					return fmt.Errorf("s3 uploads are not configured")
				}
				uploader, err := rt.NewUploader(ctx, flags.bucket, flags.region, flags.prefix)
				if err != nil {
					return err
				}
				key := s3store.ObjectKey(uploader.Prefix(), kind.String(), extension, e.GeneratedAt)
				uri, err := uploader.Upload(ctx, key, contentType, body.Bytes())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(rt.Output, "export written to %s\n", uri)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&flags.dataType, "type", "t", "kpis", "Data set to export (kpis, trends, projects, types)")
	cmd.Flags().StringVar(&flags.bucket, "s3-bucket", "", "Upload the export to this S3 bucket instead of stdout (default export.bucket)")
	cmd.Flags().StringVar(&flags.region, "s3-region", "", "AWS region of the bucket (default export.region)")
	cmd.Flags().StringVar(&flags.prefix, "s3-prefix", "exports/", "Key prefix for uploaded exports")
	return cmd
}

// applyConfig fills the S3 flags left unset on the command line from the app config.
func (f *exportFlags) applyConfig(cmd *cobra.Command, rt *Runtime) error {
	if rt.LoadConfig == nil {
		return nil
	}
	cfg, err := rt.LoadConfig(rt.Flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	set := cmd.Flags().Changed
	if !set("s3-bucket") {
		f.bucket = cfg.Export.Bucket
	}
	if !set("s3-region") {
		f.region = cfg.Export.Region
	}
	if !set("s3-prefix") && cfg.Export.Prefix != "" {
		f.prefix = cfg.Export.Prefix
	}
	return nil
}
