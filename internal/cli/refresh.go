package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskflow/ticket-assistant/internal/repository"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Clear the cached ticket snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := repository.RefreshCache(cmd.Context(), rt.cache, time.Now().UTC()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Ticket cache cleared.")
		return nil
	},
}
