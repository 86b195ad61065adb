// Package cli provides the command-line interface for the ticket assistant.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskflow/ticket-assistant/internal/shell"
)

var (
	focusTicket string
	resume      bool
	choice      string
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Personal ticket assistant",
	Long: `Pulls your open tickets, ranks them by urgency and offers a few
follow-ups for the top one: a CVE brief with an audit script, an
investigation plan, or a status comment.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&focusTicket, "ticket", "", "Focus a specific ticket key (e.g., ABC-123)")
	rootCmd.Flags().BoolVar(&resume, "continue", false, "Resume previous session conversation")
	rootCmd.Flags().StringVar(&choice, "choice", "", "Answer the follow-up prompt non-interactively (1, 2, 3 or skip)")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(authCheckCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	sh := shell.New(shell.Dependencies{
		Out:      cmd.OutOrStdout(),
		Tickets:  rt.tickets,
		Workload: rt.workload,
		Actions:  rt.actionService(""),
		Sessions: rt.sessions,
		Prompt:   shell.TerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		Logger:   rt.logger,
	})
	return sh.Run(ctx, shell.Options{FocusKey: focusTicket, Resume: resume, Choice: choice})
}
