package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shimono/personium-lib-common/internal/config"
	"github.com/shimono/personium-lib-common/internal/keys"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			log.Error().Err(err).Msg("Configuration is invalid.")
			return BeQuietError{}
		}
		// the resolvers decode their own config sections, so build them too
		if _, err := keys.BuildResolver(cfg.Keys); err != nil {
			log.Error().Err(err).Msg("Key configuration is invalid.")
			return BeQuietError{}
		}
		logSuccess("Configuration is valid.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
