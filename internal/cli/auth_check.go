package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var authCheckCmd = &cobra.Command{
	Use:   "auth-check",
	Short: "Verify the issue tracker credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.tracker == nil {
			return errors.New("JIRA_BASE_URL is not configured")
		}
		user, err := rt.tracker.Myself(cmd.Context())
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Authenticated as %s (%s)\n", user.DisplayName, user.AccountID)
		return nil
	},
}
