package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anonto42/petconnect/backend/internal/repositories"
	"github.com/anonto42/petconnect/backend/internal/router"
	"github.com/anonto42/petconnect/backend/internal/seed"
	"github.com/anonto42/petconnect/backend/pkg/config"
	"github.com/anonto42/petconnect/backend/pkg/firebase"
	"github.com/anonto42/petconnect/backend/pkg/logger"
)

var (
	fixturesPath string
	mode         string
	clearData    bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed PetConnect with demo members, pets and content",
	Long: `Loads fixture users, pets, posts, advice threads and events into the
configured databases.

In firebase auth mode accounts are created in (or looked up from) Firebase
Auth. In jwt mode local email/password accounts are used instead.`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&fixturesPath, "fixtures", "", "YAML fixture file (default: built-in fixtures)")
	rootCmd.Flags().StringVar(&mode, "mode", seed.ModeCreate, "account resolution: create or lookup")
	rootCmd.Flags().BoolVar(&clearData, "clear", true, "remove existing posts, advice, events and seeded pets first")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if err := seed.CheckMode(mode); err != nil {
		return err
	}
	fx, err := seed.LoadFixtures(fixturesPath)
	if err != nil {
		return err
	}

	cfg := config.Load()
	zl, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer db.CloseDB()
	if err := router.AutoMigrate(db.Postgres); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	users := repositories.NewPostgresUserRepository(db.Postgres)
	resolver, err := newResolver(ctx, cfg, users, zl)
	if err != nil {
		return err
	}

	seeder := seed.NewSeeder(
		users,
		repositories.NewPostgresPetRepository(db.Postgres),
		repositories.NewMongoPostRepository(db.MongoDB),
		repositories.NewMongoAdviceRepository(db.MongoDB),
		repositories.NewMongoEventRepository(db.MongoDB),
		resolver,
		zl,
	)
	_, err = seeder.Run(ctx, fx, clearData)
	return err
}

func newResolver(ctx context.Context, cfg *config.Config, users repositories.UserRepository, zl *zap.Logger) (seed.IdentityResolver, error) {
	if cfg.AuthMode != config.AuthModeFirebase {
		zl.Info("Seeding local accounts", zap.String("mode", mode))
		return seed.NewLocalResolver(users, mode), nil
	}
	app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("init firebase: %w", err)
	}
	zl.Info("Seeding Firebase accounts", zap.String("mode", mode))
	return seed.NewFirebaseResolver(app.AuthClient, mode), nil
}
