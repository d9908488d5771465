package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/outfit-matcher/internal/config"
	"github.com/kozaktomas/outfit-matcher/internal/database/postgres"
	"github.com/kozaktomas/outfit-matcher/internal/outfit"
	"github.com/kozaktomas/outfit-matcher/internal/palette"
	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
	"github.com/kozaktomas/outfit-matcher/internal/web"
)

// Sessions idle longer than the cookie lifetime are unreachable.
const (
	sessionRetention = 30 * 24 * time.Hour
	cleanupInterval  = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Outfit Matcher web server.
The web server provides a browser-based interface for uploading a face photo
and garment photos, and for browsing the suggested pairings.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
	serveCmd.Flags().String("session-secret", "", "Secret for signing session cookies (overrides WEB_SESSION_SECRET)")
	serveCmd.Flags().String("rules", "", "Styling rules YAML file (defaults to the built-in rules)")
}

// applyServeFlags lets explicit flags win over the environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}
	if secret := mustGetString(cmd, "session-secret"); secret != "" {
		cfg.Web.SessionSecret = secret
	}
}

// loadRules returns the rules from path, or the built-in rules when path is empty.
func loadRules(path string) (outfit.Rules, error) {
	if path == "" {
		return outfit.DefaultRules(), nil
	}
	rules, err := outfit.LoadRules(path)
	if err != nil {
		return outfit.Rules{}, err
	}
	log.Info().Str("path", path).Msg("using custom styling rules")
	return rules, nil
}

// sessionStore is what serve needs from a session backend.
type sessionStore interface {
	wardrobe.Store
	wardrobe.StaleSweeper
}

// openStore connects to PostgreSQL when configured and falls back to memory.
func openStore(ctx context.Context, cfg *config.Config) (sessionStore, *postgres.Pool, error) {
	if cfg.Database.URL == "" {
		log.Info().Msg("DATABASE_URL not set, sessions are kept in memory")
		return wardrobe.NewMemoryStore(), nil, nil
	}

	pool, err := postgres.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	log.Info().Msg("session persistence enabled (PostgreSQL)")
	return postgres.NewWardrobeRepository(pool), pool, nil
}

// sweepStaleSessions deletes sessions idle for longer than sessionRetention.
func sweepStaleSessions(ctx context.Context, store wardrobe.StaleSweeper, now time.Time) {
	count, err := store.DeleteStale(ctx, now.Add(-sessionRetention))
	if err != nil {
		log.Warn().Err(err).Msg("failed to delete stale sessions")
		return
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("deleted stale sessions")
	}
}

// cleanupStaleSessions sweeps abandoned sessions every cleanupInterval until ctx is done.
func cleanupStaleSessions(ctx context.Context, store wardrobe.StaleSweeper) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sweepStaleSessions(ctx, store, now)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyServeFlags(cmd, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rules, err := loadRules(mustGetString(cmd, "rules"))
	if err != nil {
		return err
	}

	catalog := palette.LoadCatalog(ctx, palette.Source{
		URL:     cfg.Catalog.URL,
		Path:    cfg.Catalog.Path,
		Timeout: cfg.Catalog.Timeout,
	})
	log.Info().Int("palettes", catalog.Len()).Msg("palette catalog ready")

	store, pool, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}
	go cleanupStaleSessions(ctx, store)

	generator := outfit.NewGenerator(palette.NewMatcher(catalog), rules)
	server := web.NewServer(cfg, catalog, generator, store)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
		cancel()
	}()

	fmt.Printf("Starting Outfit Matcher on http://%s\n", cfg.Web.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
