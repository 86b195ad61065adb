package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

var (
	tokenSubject string
	tokenType    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		token, err := rt.auth.IssueToken(tokenSubject, domain.SubjectType(strings.ToUpper(tokenType)))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, token.Value)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", token.ExpiresAt.UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Name of the operator or client the token is for")
	tokenCmd.Flags().StringVar(&tokenType, "type", "operator", "Subject type: operator or automation")
	_ = tokenCmd.MarkFlagRequired("subject")
}
