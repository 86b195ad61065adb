package shell

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/service"
)

const resumeTail = 6

// Options controls a single interactive run.
type Options struct {
	FocusKey string
	Resume   bool
	// Choice answers the follow-up prompt without reading input when set.
	Choice string
}

// Shell drives one fetch, rank, choose and act cycle.
type Shell struct {
	out      io.Writer
	tickets  *service.TicketService
	workload *service.WorkloadService
	actions  *service.ActionService
	sessions *service.SessionService
	prompt   Prompter
	logger   *zap.Logger
	now      func() time.Time
}

// Dependencies bundles collaborators for the shell.
type Dependencies struct {
	Out      io.Writer
	Tickets  *service.TicketService
	Workload *service.WorkloadService
	Actions  *service.ActionService
	Sessions *service.SessionService
	Prompt   Prompter
	Logger   *zap.Logger
}

// New constructs a shell.
func New(deps Dependencies) *Shell {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		out:      deps.Out,
		tickets:  deps.Tickets,
		workload: deps.Workload,
		actions:  deps.Actions,
		sessions: deps.Sessions,
		prompt:   deps.Prompt,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one assistant session. Fetch failures abort the run; action
// failures are printed as warnings.
func (s *Shell) Run(ctx context.Context, opts Options) error {
	session, err := s.sessions.StartSession(ctx)
	if err != nil {
		return err
	}
	if opts.Resume {
		s.println(RenderResume(session, s.sessions.RecentExchanges(resumeTail)))
	}

	tickets, err := s.tickets.ListActive(ctx, opts.FocusKey)
	if err != nil {
		return err
	}

	s.println(RenderHeader(len(tickets)))
	analysis := s.workload.AnalyzeWorkload(ctx, tickets, s.now().UTC())
	s.println(RenderPriorities(analysis.Ordered))

	top, ok := analysis.Top()
	if !ok {
		s.println(okStyle.Render("No tickets found. You're all clear!"))
		return nil
	}
	s.println(RenderAnalysis(top, analysis.Summary))

	choice, err := s.readChoice(opts)
	if err != nil {
		return err
	}
	if !isSkip(choice) && !service.IsPlaybookChoice(choice) {
		ack, err := s.sessions.HandleUserInput(ctx, choice)
		if err != nil {
			s.logger.Warn("failed to record input", zap.Error(err))
		} else {
			s.println(hintStyle.Render(ack))
		}
	} else if err := s.sessions.RememberContext(ctx, domain.Exchange{Role: domain.RoleUser, Text: choice}); err != nil {
		s.logger.Warn("failed to record choice", zap.Error(err))
	}

	results := s.actions.ForSession(session.ID).RunPlaybook(ctx, choice, top)
	reply := s.report(results)
	if err := s.sessions.RememberContext(ctx, domain.Exchange{Role: domain.RoleAssistant, Text: reply}); err != nil {
		s.logger.Warn("failed to record reply", zap.Error(err))
	}

	s.println(RenderClosing(s.sessions.SuggestFollowUp()))
	return nil
}

func (s *Shell) readChoice(opts Options) (string, error) {
	if choice := strings.TrimSpace(opts.Choice); choice != "" {
		return strings.ToLower(choice), nil
	}
	if s.prompt == nil {
		return SkipChoice, nil
	}
	return s.prompt()
}

func isSkip(choice string) bool {
	return choice == SkipChoice || choice == "s"
}

func (s *Shell) report(results []domain.Result) string {
	if len(results) == 0 {
		msg := "Okay, skipping automated actions for now."
		s.println(msg)
		return msg
	}
	lines := make([]string, 0, len(results))
	for _, r := range results {
		s.println(RenderResult(r))
		lines = append(lines, r.Message)
	}
	return strings.Join(lines, "\n")
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}
