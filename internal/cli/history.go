package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently performed actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.history == nil {
			return errors.New("action history requires POSTGRES_DSN")
		}
		records, err := rt.history.ListRecent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		return writeHistory(cmd.OutOrStdout(), records)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show")
}

func writeHistory(w io.Writer, records []domain.ActionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No actions recorded yet.")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("When", "Ticket", "Action", "OK", "Detail")
	for _, r := range records {
		ticket := "-"
		if r.TicketKey != nil {
			ticket = *r.TicketKey
		}
		message, _ := r.Detail["message"].(string)
		t.Row(r.CreatedAt.Local().Format(time.DateTime), ticket, string(r.Action), fmt.Sprintf("%t", r.Success), message)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
