package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shimono/personium-lib-common/internal/service"
)

var (
	inspectIssuer string
	inspectLocal  bool
	inspectDebug  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [token]",
	Short: "Decode and display a cell-local token",
	Long: `Decodes a token and prints its claims.

Modes:
  1. Remote (default): asks the configured token server to introspect it.
  2. Local (--local): decrypts in-process using the key configuration file.

Pass '-' to read the token from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := args[0]
		if raw == "-" {
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

		var resp *service.VerifyResponse
		if inspectLocal {
			svc, _, err := f.GetLocalService()
			if err != nil {
				return err
			}
			resp, err = svc.VerifyToken(cmd.Context(), service.VerifyRequest{
				Token:  raw,
				Issuer: inspectIssuer,
			})
			if err != nil {
				return logError(err, "", "token rejected")
			}
		} else {
			cli, err := f.GetClient()
			if err != nil {
				return err
			}
			var correlation string
			resp, correlation, err = cli.VerifyToken(cmd.Context(), raw, inspectIssuer)
			if err != nil {
				return logError(err, correlation, "token rejected")
			}
		}

		if inspectDebug {
			spew.Dump(resp)
			return nil
		}

		printVerifyResponse(resp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectLocal, "local", false, "Inspect in-process using the key configuration file")
	inspectCmd.Flags().StringVar(&inspectIssuer, "issuer", "", "Issuer the token must decrypt under")
	inspectCmd.Flags().BoolVar(&inspectDebug, "debug", false, "Dump the full decoded structure")

	_ = inspectCmd.MarkFlagRequired("issuer")
}

func printVerifyResponse(resp *service.VerifyResponse) {
	status := greenCheck + " valid"
	if resp.Expired {
		status = redCross + " expired"
	}
	fmt.Println(bold("\n── Token ──"), status)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRows([]table.Row{
		{"Kind", resp.Kind},
		{"ID", resp.ID},
		{"Subject", resp.Subject},
		{"Issuer", resp.Issuer},
		{"Issued At", resp.IssuedAt.Format(time.RFC3339)},
		{"Expires At", resp.ExpiresAt.Format(time.RFC3339)},
	})
	if resp.Schema != "" {
		t.AppendRow(table.Row{"Schema", resp.Schema})
	}
	if resp.ExtCellURL != "" {
		t.AppendRow(table.Row{"Ext Cell", resp.ExtCellURL})
	}
	if len(resp.Scope) > 0 {
		t.AppendRow(table.Row{"Scope", strings.Join(resp.Scope, " ")})
	}
	for _, role := range resp.Roles {
		t.AppendRow(table.Row{"Role", fmt.Sprintf("%s (%s)", role.Name, truncate(role.URL, 60))})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
