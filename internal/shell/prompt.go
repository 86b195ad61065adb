package shell

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SkipChoice is recorded when the prompt is dismissed.
const SkipChoice = "skip"

// choiceModel reads one follow-up choice.
type choiceModel struct {
	input  textinput.Model
	choice string
	done   bool
}

func newChoiceModel() choiceModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "1, 2, 3 or skip"
	input.CharLimit = 32
	input.Focus()
	return choiceModel{input: input}
}

func (m choiceModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.choice = strings.ToLower(strings.TrimSpace(m.input.Value()))
			if m.choice == "" {
				m.choice = SkipChoice
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.choice = SkipChoice
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m choiceModel) View() string {
	if m.done {
		return ""
	}
	return m.input.View() + "\n"
}

// Prompter asks the operator which follow-up to run.
type Prompter func() (string, error)

// TerminalPrompter runs the bubbletea prompt on the given streams.
func TerminalPrompter(in io.Reader, out io.Writer) Prompter {
	return func() (string, error) {
		final, err := tea.NewProgram(newChoiceModel(), tea.WithInput(in), tea.WithOutput(out)).Run()
		if err != nil {
			return "", err
		}
		if m, ok := final.(choiceModel); ok && m.done {
			return m.choice, nil
		}
		return SkipChoice, nil
	}
}
