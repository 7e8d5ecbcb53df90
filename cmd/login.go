package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shimono/personium-lib-common/internal/cliconfig"
	"github.com/shimono/personium-lib-common/pkg/client"
)

var loginCmd = &cobra.Command{
	Use:   "login [admin-token]",
	Short: "Save an admin token for a token server",
	Long: `Stores the admin token for the configured server so future admin requests
(like reading audit logs) are authenticated automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adminToken := args[0]
		if adminToken == "" {
			return fmt.Errorf("token cannot be empty")
		}

		server := f.RemoteAddr
		if server == "" {
			server = viper.GetString(ServerAddrKey)
		}
		if server == "" {
			return fmt.Errorf("server address not configured, provide via --server or env")
		}
		u, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("parsing server URL: %w", err)
		}

		// check the token against the server before saving it
		cli := client.New(server, client.WithAuthToken(adminToken))
		log.Info().Msgf("Checking admin token against %q...", u.Host)
		if _, correlation, err := cli.ListAudits(cmd.Context(), client.ListAuditsOpts{Limit: 1}); err != nil {
			return logError(err, correlation, "admin token rejected by server")
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(server, adminToken); err != nil {
			return err
		}
		if err := cliconfig.Save(cfg); err != nil {
			return logError(err, "", "login succeeded but could not save credentials")
		}

		logSuccess("saved credentials for %s", bold(u.Host))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
