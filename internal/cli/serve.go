package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvocabulary78-netizen/Stride/internal/admin"
	"github.com/lvocabulary78-netizen/Stride/internal/auth"
	"github.com/lvocabulary78-netizen/Stride/internal/dialogue"
	"github.com/lvocabulary78-netizen/Stride/internal/logging"
	"github.com/lvocabulary78-netizen/Stride/internal/query"
	"github.com/lvocabulary78-netizen/Stride/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP transport",
		Long:  "Serve the glossary over HTTP: message routing, lookups, admin endpoints and a health check.",
		Run:   runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Listen port (default: $PORT or 10000)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	admins := auth.NewAllowList(cfg.Admins)
	if admins.Len() == 0 {
		logger.Warn("no admins configured, privileged operations are disabled")
	}

	engine := dialogue.NewEngine(s, admins, logger)
	resolver := query.NewResolver(s)
	adminSvc := admin.NewService(s, admins, logger)
	srv := server.New(cfg.Port, engine, resolver, adminSvc, s, logger)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.Info("server stopped", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
