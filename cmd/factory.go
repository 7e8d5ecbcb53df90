package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shimono/personium-lib-common/internal/audit"
	"github.com/shimono/personium-lib-common/internal/cliconfig"
	"github.com/shimono/personium-lib-common/internal/config"
	"github.com/shimono/personium-lib-common/internal/keys"
	"github.com/shimono/personium-lib-common/internal/service"
	"github.com/shimono/personium-lib-common/pkg/client"
	"github.com/shimono/personium-lib-common/pkg/token"
)

type Factory struct {
	// RemoteAddr is the address of the token server to connect to.
	RemoteAddr string
}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) bindServerFlag(flags *pflag.FlagSet) {
	flags.StringVar(&f.RemoteAddr, "server", "", "Address of the remote token server")
}

// GetClient returns an authenticated HTTP client for remote operations.
func (f *Factory) GetClient() (*client.Client, error) {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(ServerAddrKey) // prio 2: config/env
	}
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set PLCOMMON_ADDR)")
	}

	var authToken string
	if cfg, err := cliconfig.Load(); err == nil {
		if cred, err := cfg.GetCredential(server); err == nil { // token prio 1: saved credential
			authToken = cred.Token
		}
	}

	if envToken := os.Getenv("PLCOMMON_TOKEN"); envToken != "" { // token prio 2: env var
		authToken = envToken
	}

	return client.New(server, client.WithAuthToken(authToken)), nil
}

// GetLocalService builds a token service from the service configuration
// file, for commands that operate on tokens without a server.
func (f *Factory) GetLocalService() (*service.TokenService, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	resolver, err := keys.BuildResolver(cfg.Keys)
	if err != nil {
		return nil, nil, fmt.Errorf("building key resolver: %w", err)
	}

	svc := service.NewTokenService(
		token.NewCodec(resolver),
		resolver,
		audit.NewNoopAuditor(), // for local CLI operations, we don't do auditing
		cfg.Unit.URL,
		cfg.Tokens.AccessLifespan,
		cfg.Tokens.RefreshLifespan,
		cfg.Tokens.ClockSkew,
	)
	return svc, cfg, nil
}
