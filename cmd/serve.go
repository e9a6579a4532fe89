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

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/db/bunx"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
	"github.com/Harsh-0z/civic-flow-backend/internal/server"
	"github.com/Harsh-0z/civic-flow-backend/internal/services/iam"
	"github.com/Harsh-0z/civic-flow-backend/internal/services/issues"
	"github.com/Harsh-0z/civic-flow-backend/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CivicFlow API server",
	Long:  `Starts the HTTP server with the auth, issue and admin endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bunx.NewDB(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to database")

		userRepo := repository.NewBunUserRepository(db)
		issueRepo := repository.NewBunIssueRepository(db)

		tokens := auth.NewTokenCodec(cfg.JWTSecret)
		iamService := iam.NewService(userRepo, tokens, cfg.AdminSignupToken)
		issueService := issues.NewService(issueRepo, userRepo)

		uploader, err := storage.NewLocalUploader(cfg.UploadDir, cfg.ServerURL)
		if err != nil {
			return fmt.Errorf("failed to prepare upload storage: %w", err)
		}

		r := server.NewRouter(server.RouterOptions{
			Cfg:          cfg,
			Tokens:       tokens,
			IAMService:   iamService,
			IssueService: issueService,
			Users:        userRepo,
			Uploader:     uploader,
			UploadDir:    uploader.Dir(),
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

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
