package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shimono/personium-lib-common/internal/audit"
)

var fingerprintRaw bool

var fingerprintCmd = &cobra.Command{
	Use:     "fingerprint [token]",
	Aliases: []string{"fp"},
	Short:   `Calculate the fingerprint of a token`,
	Long: `Calculates the non-reversible fingerprint of a token (SHA-256, base64).
This is the value stored in the audit log's 'fingerprint' field, so a leaked
token can be matched against the audit trail without storing the token itself.`,
	Example: `  # Calculate the fingerprint of a token
  plcommon fingerprint AV~...

  # Calculate the fingerprint of a token from stdin
  echo "AV~..." | plcommon fingerprint -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw string

		if args[0] != "-" {
			raw = args[0]
		} else {
			// read from stdin
			log.Debug().Msg("Reading token from stdin")

			data, err := os.ReadFile("/dev/stdin")
			if err != nil {
				return fmt.Errorf("failed to read token from stdin: %w", err)
			}
			raw = strings.TrimSpace(string(data))
		}

		if raw == "" {
			return fmt.Errorf("token cannot be empty")
		}

		fp := audit.Fingerprint(raw)

		if fingerprintRaw {
			fmt.Println(fp)
		} else {
			fmt.Println("Fingerprint:", fp)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)

	fingerprintCmd.Flags().BoolVarP(&fingerprintRaw, "raw", "r", false,
		"Output only the fingerprint value without additional text")
}
