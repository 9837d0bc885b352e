package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/datafilter"
	"github.com/authgate/authgate/internal/db/bunx"
	gatemw "github.com/authgate/authgate/internal/middleware"
	"github.com/authgate/authgate/internal/repository"
	"github.com/authgate/authgate/internal/server"
	"github.com/authgate/authgate/internal/services/credential"
	"github.com/authgate/authgate/internal/services/permcache"
	"github.com/authgate/authgate/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gate server",
	Long:  `Starts the HTTP server with the access-control gate in front of every route.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connect to database
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to database")

		// Initialize repositories
		accountRepo := repository.NewBunAccountRepository(db)
		domainRepo := repository.NewBunDomainRepository(db)
		permissionRepo := repository.NewBunPermissionRepository(db)

		// The permission cache must load before any anonymous request can be
		// classified; a failure here is fatal.
		cache, err := permcache.New(permissionRepo)
		if err != nil {
			return fmt.Errorf("initialize permission cache: %w", err)
		}
		log.Printf("Permission cache loaded (version=%d, public=%d)",
			cache.Get().Version, len(cache.Public()))

		tokens := auth.NewTokenProcessor(cfg.Token)
		loader := credential.NewLoader(accountRepo, domainRepo, cache, cfg.Token.TTL)

		gate, err := gatemw.NewGateMiddleware(gatemw.GateDependencies{
			Tokens:      tokens,
			Credentials: loader,
			Public:      cache,
		})
		if err != nil {
			return fmt.Errorf("configure gate middleware: %w", err)
		}

		// Background cache refresh picks up out-of-band permission changes.
		if cfg.CacheRefreshInterval > 0 {
			refreshCtx, cancelRefresh := context.WithCancel(cmd.Context())
			defer cancelRefresh()
			go func() {
				ticker := time.NewTicker(cfg.CacheRefreshInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if err := cache.Refresh(refreshCtx); err != nil {
							log.Printf("ERROR: Background cache refresh failed: %v", err)
						} else {
							snapshot := cache.Get()
							log.Printf("Background cache refreshed (version=%d, public=%d)",
								snapshot.Version, len(snapshot.Public))
						}
					case <-refreshCtx.Done():
						log.Printf("Stopping background cache refresh")
						return
					}
				}
			}()
		}

		metrics, err := telemetry.NewGateMetrics()
		if err != nil {
			return fmt.Errorf("configure gate metrics: %w", err)
		}

		r := server.NewRouter(server.RouterOptions{
			Gate:    gate,
			Metrics: metrics,
			Admin:   &server.AdminHandlers{
				Permissions: permissionRepo,
				Guard:       datafilter.NewPermissionDataFilter(permissionRepo),
				Cache:       cache,
			},
		})

		// Wrap router with h2c for HTTP/2 cleartext support
		h2cHandler := h2c.NewHandler(r, &http2.Server{})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      h2cHandler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Wait for interrupt signal
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			log.Printf("Received signal %v, starting graceful shutdown", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				if closeErr := srv.Close(); closeErr != nil {
					return fmt.Errorf("could not stop server gracefully: %w", err)
				}
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
