package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/de-tools/booking-atlas/pkg/server"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/de-tools/booking-atlas/pkg/services/auth"
	"github.com/de-tools/booking-atlas/pkg/services/booking"
	"github.com/de-tools/booking-atlas/pkg/services/config"
	"github.com/de-tools/booking-atlas/pkg/services/source"
	"github.com/de-tools/booking-atlas/pkg/store/duckdb"
	duckdbbooking "github.com/de-tools/booking-atlas/pkg/store/duckdb/booking"
	duckdbuser "github.com/de-tools/booking-atlas/pkg/store/duckdb/user"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	demoAccounts bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:          "web",
		Short:        "Start the booking analytics API server",
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file; BOOKING_ATLAS_* variables override it")
	rootCmd.Flags().BoolVar(&demoAccounts, "demo-accounts", true,
		"Create the admin and sales demo accounts on startup")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger := zerolog.New(os.Stdout).Level(cfg.LogLevel()).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (set BOOKING_ATLAS_AUTH_JWT_SECRET)")
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Storage.DbPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close DuckDB")
		}
	}()

	bookingStore, err := duckdbbooking.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create booking store: %w", err)
	}
	userStore, err := duckdbuser.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create user store: %w", err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}
	authService := auth.NewService(userStore, tokens)
	if demoAccounts {
		if err := authService.SeedDemoAccounts(ctx); err != nil {
			return fmt.Errorf("failed to seed demo accounts: %w", err)
		}
		logger.Info().Strs("roles", auth.DemoRoles).Msg("demo accounts ready")
	}

	src, err := analyticsSource(ctx, cfg, bookingStore)
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close analytics source")
		}
	}()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	api := server.NewWebAPI(server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Auth:      authService,
			Bookings:  booking.NewService(bookingStore),
			Analytics: analytics.NewService(src),
			Logger:    logger,
		},
	})
	return api.Start()
}

// analyticsSource reads from the configured warehouse profile, or from the
// embedded booking store when no profile is set.
func analyticsSource(ctx context.Context, cfg *config.AppConfig, embedded source.RangeReader) (source.Source, error) {
	logger := zerolog.Ctx(ctx)
	if cfg.Source.Profile == "" {
		logger.Info().Str("db", cfg.Storage.DbPath).Msg("analytics reads the embedded store")
		return source.NewSource(embedded, nil), nil
	}

	profiles, err := config.NewRegistry(cfg.Source.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile registry: %w", err)
	}
	src, err := source.Open(ctx, source.NewDefaultRegistry(), profiles, cfg.Source.Profile)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("profile", cfg.Source.Profile).
		Str("profiles", cfg.Source.ProfilesPath).
		Msg("analytics reads a warehouse profile")
	return src, nil
}
