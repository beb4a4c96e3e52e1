package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/de-tools/booking-atlas/pkg/services/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

type mockAnalyzer struct{ mock.Mock }

func (m *mockAnalyzer) KPISummary(ctx context.Context, q analytics.Query) (domain.KPISummary, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(domain.KPISummary), args.Error(1)
}

func (m *mockAnalyzer) Trends(ctx context.Context, q analytics.Query) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

func (m *mockAnalyzer) Distribution(ctx context.Context, dim domain.Dimension, q analytics.Query) ([]domain.CategoryPoint, error) {
	args := m.Called(ctx, dim, q)
	return args.Get(0).([]domain.CategoryPoint), args.Error(1)
}

func (m *mockAnalyzer) Chart(ctx context.Context, kind analytics.ChartKind, q analytics.Query) (domain.Chart, error) {
	args := m.Called(ctx, kind, q)
	return args.Get(0).(domain.Chart), args.Error(1)
}

func (m *mockAnalyzer) Export(ctx context.Context, kind analytics.ExportKind, format analytics.ExportFormat, q analytics.Query) (*analytics.Export, error) {
	args := m.Called(ctx, kind, format, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Export), args.Error(1)
}

type fakeUploader struct {
	key         string
	contentType string
	body        string
}

func (u *fakeUploader) Upload(_ context.Context, key, contentType string, body []byte) (string, error) {
	u.key, u.contentType, u.body = key, contentType, string(body)
	return "s3://reports/" + key, nil
}

func (u *fakeUploader) Prefix() string { return "exports/" }

type profileList []domain.SourceProfile

func (p profileList) GetProfiles(context.Context) ([]domain.SourceProfile, error) { return p, nil }

func newRuntime(a Analyzer, flags Flags) (*Runtime, *bytes.Buffer, *int) {
	var out, logs bytes.Buffer
	released := 0
	rt := &Runtime{
		Flags:  flags,
		Output: &out,
		Errors: &logs,
		Now:    func() time.Time { return fixedNow },
		Connect: func(context.Context, Flags) (Analyzer, func() error, error) {
			return a, func() error { released++; return nil }, nil
		},
	}
	return rt, &out, &released
}

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(append([]string{}, args...))
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(context.Background())
}

func TestRuntime_Query(t *testing.T) {
	t.Run("dates filters and granularity", func(t *testing.T) {
		rt := &Runtime{Flags: Flags{
			StartDate: "2024-01-01",
			EndDate:   "2024-03-31",
			Filters:   []string{"status=active,complete", "project_name=Sky", "min_amount=100000", "unknown=1"},
			GroupBy:   "quarter",
		}}

		q, err := rt.Query()

		require.NoError(t, err)
		require.NotNil(t, q.Range.Start)
		require.NotNil(t, q.Range.End)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *q.Range.Start)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), *q.Range.End)
		assert.Equal(t, []domain.BookingStatus{domain.BookingStatusActive, domain.BookingStatusComplete}, q.Criteria.Statuses)
		assert.Equal(t, "Sky", q.Criteria.ProjectName)
		require.NotNil(t, q.Criteria.MinAmount)
		assert.Equal(t, "100000", q.Criteria.MinAmount.String())
		assert.Equal(t, domain.GranularityQuarter, q.Granularity)
	})

	tests := []struct {
		name  string
		flags Flags
	}{
		{name: "bad start date", flags: Flags{StartDate: "yesterday"}},
		{name: "bad end date", flags: Flags{EndDate: "31/12/2024"}},
		{name: "filter without value separator", flags: Flags{Filters: []string{"status"}}},
		{name: "non numeric bound", flags: Flags{Filters: []string{"max_area=big"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Runtime{Flags: tt.flags}).Query()
			assert.Error(t, err)
		})
	}
}

func TestKPIsCmd(t *testing.T) {
	summary := domain.KPISummary{TotalBookings: 2, ActiveBookings: 1, CancelledBookings: 1, TotalRevenue: 100, CancellationRate: 50}

	tests := []struct {
		name     string
		format   string
		contains []string
	}{
		{name: "table", format: FormatTable, contains: []string{"Booking KPIs", "Period: all time", "| total_bookings", "| cancellation_rate"}},
		{name: "text", format: FormatText, contains: []string{"- total_revenue: 100 amount"}},
		{name: "json", format: FormatJSON, contains: []string{`"total_bookings": 2`, `"cancellation_rate": 50`}},
		{name: "csv", format: FormatCSV, contains: []string{"metric,value\n", "total_bookings,2\n", "total_revenue,100\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := new(mockAnalyzer)
			a.On("KPISummary", mock.Anything, mock.Anything).Return(summary, nil)
			rt, out, released := newRuntime(a, Flags{Format: tt.format})

			require.NoError(t, execute(NewKPIsCmd(rt)))

			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
			assert.Equal(t, 1, *released)
			a.AssertExpectations(t)
		})
	}
}

func TestKPIsCmd_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		rt, _, released := newRuntime(new(mockAnalyzer), Flags{Format: "xml"})
		assert.ErrorContains(t, execute(NewKPIsCmd(rt)), `unsupported --format "xml"`)
		assert.Zero(t, *released)
	})

	t.Run("analyzer failure still releases the source", func(t *testing.T) {
		a := new(mockAnalyzer)
		a.On("KPISummary", mock.Anything, mock.Anything).Return(domain.KPISummary{}, errors.New("warehouse offline"))
		rt, _, released := newRuntime(a, Flags{})

		assert.ErrorContains(t, execute(NewKPIsCmd(rt)), "warehouse offline")
		assert.Equal(t, 1, *released)
	})

	t.Run("connect failure", func(t *testing.T) {
		rt, _, _ := newRuntime(nil, Flags{})
		rt.Connect = func(context.Context, Flags) (Analyzer, func() error, error) {
			return nil, nil, errors.New("no such profile")
		}
		assert.ErrorContains(t, execute(NewKPIsCmd(rt)), "no such profile")
	})
}

func TestTrendsCmd_UsesGroupBy(t *testing.T) {
	a := new(mockAnalyzer)
	a.On("Trends", mock.Anything, mock.MatchedBy(func(q analytics.Query) bool {
		return q.Granularity == domain.GranularityYear
	})).Return([]domain.TrendPoint{{Period: "2024", Year: 2024, BookingCount: 3, TotalRevenue: 250}}, nil)
	rt, out, _ := newRuntime(a, Flags{GroupBy: "year", Format: FormatCSV})

	require.NoError(t, execute(NewTrendsCmd(rt)))

	assert.Contains(t, out.String(), "2024,3,0,250,0,0,0,0\n")
	a.AssertExpectations(t)
}

func TestDistributionCmd(t *testing.T) {
	perArea := 2.5
	points := []domain.CategoryPoint{{Label: "2BHK", BookingCount: 2, TotalRevenue: 500, SuccessRate: 100, RevenuePerUnitArea: &perArea}}

	t.Run("property types as json", func(t *testing.T) {
		a := new(mockAnalyzer)
		a.On("Distribution", mock.Anything, domain.DimensionPropertyType, mock.Anything).Return(points, nil)
		rt, out, _ := newRuntime(a, Flags{Format: FormatJSON})

		require.NoError(t, execute(NewDistributionCmd(rt), "property_type"))

		assert.Contains(t, out.String(), `"property_type": "2BHK"`)
		a.AssertExpectations(t)
	})

	t.Run("projects by default", func(t *testing.T) {
		a := new(mockAnalyzer)
		a.On("Distribution", mock.Anything, domain.DimensionProject, mock.Anything).Return(points, nil)
		rt, out, _ := newRuntime(a, Flags{Format: FormatText})

		require.NoError(t, execute(NewDistributionCmd(rt)))

		assert.Contains(t, out.String(), "Project Distribution")
		assert.Contains(t, out.String(), "- 2BHK: 2 bookings")
	})

	t.Run("unknown dimension", func(t *testing.T) {
		rt, _, _ := newRuntime(new(mockAnalyzer), Flags{})
		assert.ErrorIs(t, execute(NewDistributionCmd(rt), "customer"), analytics.ErrInvalidArgument)
	})
}

func TestChartCmd(t *testing.T) {
	chart := domain.Chart{
		Labels:   []string{"Jan 2024", "Feb 2024"},
		Datasets: []domain.Dataset{{Label: "Bookings", Type: domain.SeriesLine, Data: []float64{1, 4}}},
	}

	t.Run("renders datasets", func(t *testing.T) {
		a := new(mockAnalyzer)
		a.On("Chart", mock.Anything, analytics.ChartMonthlyTrends, mock.Anything).Return(chart, nil)
		rt, out, _ := newRuntime(a, Flags{Format: FormatText})

		require.NoError(t, execute(NewChartCmd(rt), "monthly_trends"))

		assert.Contains(t, out.String(), "=== Bookings ===")
		assert.Contains(t, out.String(), "- Feb 2024: 4")
	})

	t.Run("csv is rejected", func(t *testing.T) {
		a := new(mockAnalyzer)
		a.On("Chart", mock.Anything, analytics.ChartMonthlyTrends, mock.Anything).Return(chart, nil)
		rt, _, _ := newRuntime(a, Flags{Format: FormatCSV})

		assert.ErrorContains(t, execute(NewChartCmd(rt), "monthly_trends"), "csv output is not available")
	})

	t.Run("unknown kind", func(t *testing.T) {
		rt, _, _ := newRuntime(new(mockAnalyzer), Flags{})
		assert.ErrorIs(t, execute(NewChartCmd(rt), "pie"), analytics.ErrInvalidArgument)
	})
}

func TestExportCmd(t *testing.T) {
	data := analytics.KPIResult{KPISummary: domain.KPISummary{TotalBookings: 1, TotalRevenue: 100}}

	t.Run("json to stdout", func(t *testing.T) {
		a := new(mockAnalyzer)
		a.On("Export", mock.Anything, analytics.ExportKPIs, analytics.ExportFormatJSON, mock.Anything).
			Return(analytics.BuildExport(analytics.ExportKPIs, analytics.ExportFormatJSON, domain.DateRange{}, analytics.Criteria{}, data, fixedNow), nil)
		rt, out, _ := newRuntime(a, Flags{Format: FormatJSON})

		require.NoError(t, execute(NewExportCmd(rt)))

		assert.Contains(t, out.String(), `"data_type": "kpis"`)
		a.AssertExpectations(t)
	})

	t.Run("csv to s3", func(t *testing.T) {
		a := new(mockAnalyzer)
		a.On("Export", mock.Anything, analytics.ExportKPIs, analytics.ExportFormatCSV, mock.Anything).
			Return(analytics.BuildExport(analytics.ExportKPIs, analytics.ExportFormatCSV, domain.DateRange{}, analytics.Criteria{}, data, fixedNow), nil)
		rt, out, _ := newRuntime(a, Flags{Format: FormatCSV})
		uploader := &fakeUploader{}
		var gotBucket, gotRegion string
		rt.NewUploader = func(_ context.Context, bucket, region, _ string) (Uploader, error) {
			gotBucket, gotRegion = bucket, region
			return uploader, nil
		}

		require.NoError(t, execute(NewExportCmd(rt), "--s3-bucket", "reports", "--s3-region", "ap-south-1"))

		assert.Equal(t, "reports", gotBucket)
		assert.Equal(t, "ap-south-1", gotRegion)
		assert.Equal(t, "exports/kpis-20240630T120000Z.csv", uploader.key)
		assert.Equal(t, "text/csv", uploader.contentType)
		assert.Contains(t, uploader.body, "total_bookings,1\n")
		assert.Equal(t, "export written to s3://reports/exports/kpis-20240630T120000Z.csv\n", out.String())
	})

	t.Run("s3 settings default to the app config", func(t *testing.T) {
		// Given
		a := new(mockAnalyzer)
		a.On("Export", mock.Anything, analytics.ExportKPIs, analytics.ExportFormatJSON, mock.Anything).
			Return(analytics.BuildExport(analytics.ExportKPIs, analytics.ExportFormatJSON, domain.DateRange{}, analytics.Criteria{}, data, fixedNow), nil)
		rt, out, _ := newRuntime(a, Flags{ConfigPath: "atlas.yaml", Format: FormatJSON})
		var gotPath string
		rt.LoadConfig = func(path string) (*config.AppConfig, error) {
			gotPath = path
			return &config.AppConfig{Export: config.ExportConfig{Bucket: "reports", Region: "eu-west-1", Prefix: "daily/"}}, nil
		}
		var gotBucket, gotRegion, gotPrefix string
		rt.NewUploader = func(_ context.Context, bucket, region, prefix string) (Uploader, error) {
			gotBucket, gotRegion, gotPrefix = bucket, region, prefix
			return &fakeUploader{}, nil
		}

		// When
		err := execute(NewExportCmd(rt), "--s3-region", "ap-south-1")

		// Then
		require.NoError(t, err)
		assert.Equal(t, "atlas.yaml", gotPath)
		assert.Equal(t, "reports", gotBucket)
		assert.Equal(t, "ap-south-1", gotRegion)
		assert.Equal(t, "daily/", gotPrefix)
		assert.Contains(t, out.String(), "export written to s3://reports/")
	})

	t.Run("config without a bucket writes to stdout", func(t *testing.T) {
		a := new(mockAnalyzer)
		a.On("Export", mock.Anything, analytics.ExportKPIs, analytics.ExportFormatJSON, mock.Anything).
			Return(analytics.BuildExport(analytics.ExportKPIs, analytics.ExportFormatJSON, domain.DateRange{}, analytics.Criteria{}, data, fixedNow), nil)
		rt, out, _ := newRuntime(a, Flags{Format: FormatJSON})
		rt.LoadConfig = func(string) (*config.AppConfig, error) {
			return &config.AppConfig{Export: config.ExportConfig{Prefix: "exports/"}}, nil
		}
		rt.NewUploader = func(context.Context, string, string, string) (Uploader, error) {
			t.Fatal("uploader must not be created without a bucket")
			return nil, nil
		}

		require.NoError(t, execute(NewExportCmd(rt)))
		assert.Contains(t, out.String(), `"data_type": "kpis"`)
	})

	t.Run("config errors are reported", func(t *testing.T) {
		rt, _, _ := newRuntime(new(mockAnalyzer), Flags{})
		loadErr := errors.New("no such file")
		rt.LoadConfig = func(string) (*config.AppConfig, error) { return nil, loadErr }

		assert.ErrorIs(t, execute(NewExportCmd(rt)), loadErr)
	})

	t.Run("unknown type", func(t *testing.T) {
		rt, _, _ := newRuntime(new(mockAnalyzer), Flags{})
		assert.ErrorIs(t, execute(NewExportCmd(rt), "--type", "users"), analytics.ErrInvalidArgument)
	})
}

func TestProfilesCmd(t *testing.T) {
	rt, out, _ := newRuntime(nil, Flags{ProfilesPath: "profiles.ini", Format: FormatJSON})
	var gotPath string
	rt.LoadProfiles = func(path string) (ProfileLister, error) {
		gotPath = path
		return profileList{
			{Name: "local", Type: domain.ProfileTypeDuckDB, Settings: map[string]string{"path": "b.db"}},
			{Name: "warehouse", Type: domain.ProfileTypePostgres},
		}, nil
	}

	require.NoError(t, execute(NewProfilesCmd(rt)))

	assert.Equal(t, "profiles.ini", gotPath)
	assert.JSONEq(t, `[{"name":"local","type":"duckdb"},{"name":"warehouse","type":"postgres"}]`, out.String())
}
