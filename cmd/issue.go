package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shimono/personium-lib-common/internal/api"
	"github.com/shimono/personium-lib-common/internal/service"
)

var (
	issueKind     string
	issueIssuer   string
	issueSubject  string
	issueSchema   string
	issueRoles    []string
	issueScope    []string
	issueLifespan time.Duration
	issueLocal    bool
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a cell-local token",
	Long: `Issues a token of the requested kind.

Modes:
  1. Remote (default): contacts the configured token server.
  2. Local (--local): loads the key configuration and issues the token
     in-process, without a server.`,
	Example: `  # Issue a visitor access token from the server
  plcommon issue --kind visitor-access --issuer https://cell.example/ --subject user1 --role admin

  # Issue locally from plcommon.yaml
  plcommon issue --local --kind resident-access --issuer https://cell.example/ --subject user1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if issueLocal {
			log.Debug().Msg("Running 'issue' command in local mode")
			return issueTokenLocally(cmd, args)
		}
		log.Debug().Msg("Running 'issue' command in remote mode")
		return issueTokenRemote(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)

	issueCmd.Flags().BoolVar(&issueLocal, "local", false, "Issue in-process using the key configuration file")
	issueCmd.Flags().StringVarP(&issueKind, "kind", "k", service.KindVisitorAccess, "Token kind to issue")
	issueCmd.Flags().StringVar(&issueIssuer, "issuer", "", "Issuer cell (or unit) URL")
	issueCmd.Flags().StringVar(&issueSubject, "subject", "", "Subject of the token")
	issueCmd.Flags().StringVar(&issueSchema, "schema", "", "Client application schema URL (optional)")
	issueCmd.Flags().StringArrayVar(&issueRoles, "role", []string{}, "Role name to grant (can be specified multiple times)")
	issueCmd.Flags().StringArrayVar(&issueScope, "scope", []string{}, "Scope value to grant (can be specified multiple times)")
	issueCmd.Flags().DurationVar(&issueLifespan, "lifespan", 0, "Token lifespan (optional, default from config)")

	_ = issueCmd.MarkFlagRequired("issuer")
}

func issueTokenRemote(cmd *cobra.Command, _ []string) error {
	cli, err := f.GetClient()
	if err != nil {
		return err
	}

	log.Info().Msgf("Requesting token from server...")
	resp, correlation, err := cli.IssueToken(cmd.Context(), api.IssuePayload{
		Kind:           issueKind,
		Issuer:         issueIssuer,
		Subject:        issueSubject,
		Schema:         issueSchema,
		Roles:          issueRoles,
		Scope:          issueScope,
		LifespanMillis: issueLifespan.Milliseconds(),
	})
	if err != nil {
		return logError(err, correlation, "failed to issue token")
	}

	logSuccess("issued %s token (expires %s)", bold(resp.Kind), resp.ExpiresAt.Format(time.RFC3339))
	return printIssueResponse(resp)
}

func issueTokenLocally(cmd *cobra.Command, _ []string) error {
	svc, _, err := f.GetLocalService()
	if err != nil {
		return err
	}

	resp, err := svc.IssueToken(cmd.Context(), service.IssueRequest{
		Kind:     issueKind,
		Issuer:   issueIssuer,
		Subject:  issueSubject,
		Schema:   issueSchema,
		Roles:    issueRoles,
		Scope:    issueScope,
		Lifespan: issueLifespan,
	})
	if err != nil {
		return logError(err, "", "failed to issue token")
	}

	logSuccess("issued %s token (expires %s)", bold(resp.Kind), resp.ExpiresAt.Format(time.RFC3339))
	return printIssueResponse(resp)
}

func printIssueResponse(resp *service.IssueResponse) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
