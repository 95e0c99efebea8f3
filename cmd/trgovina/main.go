package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/trgovina/internal/api"
	"github.com/erazemk/trgovina/internal/config"
	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/htmltext"
	"github.com/erazemk/trgovina/internal/install"
	"github.com/erazemk/trgovina/internal/shipping"
	"github.com/erazemk/trgovina/internal/store"
)

var (
	configPath string
	dbPath     string
	addr       string
	adminUser  string
	logPath    string
	sampleData bool
)

var rootCmd = &cobra.Command{
	Use:           "trgovina",
	Short:         "Storefront shipment and attribute service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

If the database does not exist yet it is created and an admin account with a
generated password is printed.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Create a new database",
	Long: `Create a new database with the schema and the admin account, optionally
seeded with sample orders, shipments and attributes.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "trgovina.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (default from config: trgovina.sqlite3)")
	rootCmd.PersistentFlags().StringVarP(&adminUser, "user", "u", "", "admin username on first run (default from config: Admin)")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "log file path (default: no file, stdout/stderr only)")
	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config: :8080)")
	installCmd.Flags().BoolVar(&sampleData, "sample-data", false, "seed sample data")

	rootCmd.AddCommand(serveCmd, installCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DB = dbPath
	}
	if flags.Changed("user") {
		cfg.AdminUser = adminUser
	}
	if flags.Changed("log") {
		cfg.Log = logPath
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Addr = addr
	}
	return cfg, nil
}

func runInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	if _, err := os.Stat(cfg.DB); err == nil {
		return fmt.Errorf("database %s already exists", cfg.DB)
	}

	res, err := initDatabase(cmd.Context(), cfg.DB, install.Options{AdminUser: cfg.AdminUser, SampleData: sampleData})
	if err != nil {
		return err
	}

	printInitResult(cfg.DB, cfg.AdminUser, res)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.DB); os.IsNotExist(err) {
		res, err := initDatabase(ctx, cfg.DB, install.Options{AdminUser: cfg.AdminUser})
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			return err
		}
		printInitResult(cfg.DB, cfg.AdminUser, res)
		fmt.Println()
	}

	database, err := db.Open(cfg.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return err
	}
	defer database.Close()

	// Ensure schema and migrations (idempotent).
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		return err
	}

	slog.Info("database ready", "path", cfg.DB)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		return err
	}

	if n, err := store.PurgeRevokedTokens(ctx, database, time.Now()); err != nil {
		slog.Warn("failed to purge revoked tokens", "error", err)
	} else if n > 0 {
		slog.Info("purged expired token revocations", "count", n)
	}

	router := api.NewRouter(database, jwtSecret, api.Options{
		Shipping:          providerRegistry(cfg.ShippingProviders),
		Pickup:            providerRegistry(cfg.PickupProviders),
		Text:              htmltext.New(cfg.Attributes.AllowHTML),
		DefaultLanguageID: cfg.DefaultLanguageID,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server started", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped with error", "error", err)
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}

// providerRegistry builds a tracker registry from configured providers.
func providerRegistry(providers []config.ProviderConfig) shipping.Registry {
	list := make([]shipping.Provider, 0, len(providers))
	for _, p := range providers {
		list = append(list, &shipping.URLProvider{Name: p.SystemName, URLTemplate: p.TrackingURL})
	}
	return shipping.NewRegistry(list...)
}

// initDatabase creates a new database with the schema and runs the installer.
// A failed installation removes the database file again.
func initDatabase(ctx context.Context, path string, opts install.Options) (*install.Result, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	res, err := installInto(ctx, database, opts)
	database.Close()
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return res, nil
}

func installInto(ctx context.Context, database *sql.DB, opts install.Options) (*install.Result, error) {
	if err := db.Migrate(database); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return install.Run(ctx, database, opts)
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username string, res *install.Result) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	if res.Shipments > 0 {
		fmt.Printf("Sample data installed: %d shipments.\n", res.Shipments)
	}
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", res.AdminPassword)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}
