package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/shell"
)

var (
	rankOutput string
	rankLimit  int
	rankTicket string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the ranked workload without prompting",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(rankOutput); err != nil {
			return err
		}
		ctx := cmd.Context()
		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		tickets, err := rt.tickets.ListActive(ctx, rankTicket)
		if err != nil {
			return err
		}
		analysis := rt.workload.AnalyzeWorkload(ctx, tickets, time.Now().UTC())
		return writeRanking(cmd.OutOrStdout(), analysis, rankOutput, rankLimit)
	},
}

func init() {
	rankCmd.Flags().StringVarP(&rankOutput, "output", "o", "table", "Output format: table, json or yaml")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "Maximum tickets to print (0 = all)")
	rankCmd.Flags().StringVar(&rankTicket, "ticket", "", "Focus a specific ticket key")
}

func validateOutput(format string) error {
	switch format {
	case "table", "", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

func writeRanking(w io.Writer, analysis domain.WorkloadAnalysis, format string, limit int) error {
	if limit > 0 && len(analysis.Ordered) > limit {
		analysis.Ordered = analysis.Ordered[:limit]
	}
	if analysis.Ordered == nil {
		analysis.Ordered = []domain.ScoredWorkItem{}
	}
	switch format {
	case "table", "":
		_, err := fmt.Fprintln(w, shell.RenderRanking(analysis.Ordered, 0)+"\n\n"+analysis.Summary)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(analysis); err != nil {
			return err
		}
		return enc.Close()
	default:
		return validateOutput(format)
	}
}
