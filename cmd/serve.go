package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shimono/personium-lib-common/internal/api"
	"github.com/shimono/personium-lib-common/internal/audit"
	"github.com/shimono/personium-lib-common/internal/config"
	"github.com/shimono/personium-lib-common/internal/keys"
	"github.com/shimono/personium-lib-common/internal/service"
	"github.com/shimono/personium-lib-common/pkg/token"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the token server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		addr := cfg.Server.Addr
		if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
			addr = flagAddr
		}

		log.Info().Msg("Initializing key resolvers...")
		resolver, err := keys.BuildResolver(cfg.Keys)
		if err != nil {
			return fmt.Errorf("building key resolver: %w", err)
		}

		auditor, err := buildAuditor(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		svc := service.NewTokenService(
			token.NewCodec(resolver),
			resolver,
			auditor,
			cfg.Unit.URL,
			cfg.Tokens.AccessLifespan,
			cfg.Tokens.RefreshLifespan,
			cfg.Tokens.ClockSkew,
		)

		var auditLog api.AuditLog
		if reader, ok := auditor.(api.AuditLog); ok {
			auditLog = reader
		} else {
			auditLog = audit.NewInMemoryAuditor(0)
		}
		srv := api.NewServer(svc, auditLog)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes(cfg.Server.AdminToken),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func buildAuditor(cfg config.AuditConfig) (audit.Auditor, error) {
	switch cfg.Type {
	case "memory", "":
		return audit.NewInMemoryAuditor(cfg.MaxEntries), nil
	case "noop":
		return audit.NewNoopAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown auditor type %q", cfg.Type)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides config)")
}
