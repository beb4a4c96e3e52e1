package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/booking-atlas/pkg/services/auth"
	"github.com/de-tools/booking-atlas/pkg/services/config"
	"github.com/de-tools/booking-atlas/pkg/store/duckdb"
	duckdbbooking "github.com/de-tools/booking-atlas/pkg/store/duckdb/booking"
	duckdbuser "github.com/de-tools/booking-atlas/pkg/store/duckdb/user"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dbPath   string
	count    int
	months   int
	randSeed uint64
)

func main() {
	var rootCmd = &cobra.Command{
		Use:          "seed",
		Short:        "Create the demo accounts and sample bookings",
		SilenceUsage: true,
		RunE:         runSeed,
	}

	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path to the DuckDB database (default storage.db_path)")
	rootCmd.Flags().IntVarP(&count, "bookings", "n", 60, "Number of sample bookings to insert")
	rootCmd.Flags().IntVar(&months, "months", 12, "Spread the bookings over this many past months")
	rootCmd.Flags().Uint64Var(&randSeed, "seed", 42, "Random seed for reproducible data")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig("")
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.Storage.DbPath
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	users, err := duckdbuser.NewStore(db)
	if err != nil {
		return err
	}
	bookings, err := duckdbbooking.NewStore(db)
	if err != nil {
		return err
	}

	// Tokens are never issued here, the secret only satisfies the constructor.
	tokens, err := auth.NewTokenManager("seed", time.Hour, cfg.Auth.Issuer)
	if err != nil {
		return err
	}
	if err := auth.NewService(users, tokens).SeedDemoAccounts(ctx); err != nil {
		return fmt.Errorf("failed to seed demo accounts: %w", err)
	}

	admin, err := users.GetByUsername(ctx, auth.DemoAccounts["admin"].Username)
	if err != nil {
		return err
	}

	sample := newGenerator(randSeed, time.Now().UTC(), months)
	err = duckdb.InTransaction(ctx, db, func(ctx context.Context) error {
		for i := 0; i < count; i++ {
			b := sample.booking(admin.ID.String())
			if err := bookings.Create(ctx, &b); err != nil {
				return fmt.Errorf("insert sample booking %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("db", dbPath).
		Int("bookings", count).
		Strs("accounts", auth.DemoRoles).
		Msg("seed complete")
	return nil
}
