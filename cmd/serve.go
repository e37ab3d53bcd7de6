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

	"github.com/deckhall/deckapi/internal/auth"
	"github.com/deckhall/deckapi/internal/db/bunx"
	"github.com/deckhall/deckapi/internal/repository"
	"github.com/deckhall/deckapi/internal/server"
	"github.com/deckhall/deckapi/internal/services/cards"
	"github.com/deckhall/deckapi/internal/services/decks"
	"github.com/deckhall/deckapi/internal/services/users"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Deck Hall API server",
	Long:  `Starts the HTTP server with the deck builder REST endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connect to database
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to database")

		// Initialize repositories
		userRepo := repository.NewBunUserRepository(db)
		deckRepo := repository.NewBunDeckRepository(db)
		deckCardRepo := repository.NewBunDeckCardRepository(db)
		likeRepo := repository.NewBunLikeRepository(db)

		// Initialize token issuer and guards
		issuer, err := auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenTTL)
		if err != nil {
			return fmt.Errorf("configure token issuer: %w", err)
		}
		guards := &auth.Guards{Users: userRepo, Decks: deckRepo}

		// Initialize services
		scryfall := cards.NewScryfallClient(cfg.ScryfallTimeout)
		userService := users.NewService(userRepo, deckRepo, likeRepo, cfg.BcryptCost)
		deckService := decks.NewService(deckRepo, deckCardRepo, scryfall)

		schemas, err := server.NewSchemaSet()
		if err != nil {
			return fmt.Errorf("compile request schemas: %w", err)
		}

		// Assemble the shared router.
		routerOpts := server.RouterOptions{
			Auth:     server.NewAuthHandlers(userService, issuer, schemas),
			Users:    server.NewUserHandlers(userService, issuer, guards, schemas),
			Decks:    server.NewDeckHandlers(deckService, schemas),
			Search:   server.NewSearchHandlers(userService, deckService),
			Verifier: issuer,
			Guards:   guards,
		}
		handler := server.NewH2CHandler(routerOpts)

		// Create HTTP server
		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      handler,
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
			log.Printf("Received signal %v, shutting down gracefully", sig)

			// Graceful shutdown with timeout
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
