package plugins

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/rsify/jay/pkg/cli"
	"github.com/rsify/jay/pkg/eval"
	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/plugger"
)

// HelpCommand is the line that shows the help text.
const HelpCommand = ".help"

//go:embed help.md
var helpText string

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

// Help shows the help text when the line is HelpCommand. The line is not
// evaluated.
func Help(h *Host) {
	plugger.On(h.Editor.Bus(), cli.LineEvent,
		func(_ context.Context, line string) (plugger.Result[string], error) {
			if strings.TrimSpace(line) != HelpCommand {
				return plugger.Continue(line), nil
			}
			_, width := h.Editor.TTY().Size()
			if width <= 0 {
				width = 80
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(), glamour.WithWordWrap(width))
			if err != nil {
				return plugger.Stop(line), fmt.Errorf("help: %w", err)
			}
			out, err := r.Render(helpText)
			if err != nil {
				return plugger.Stop(line), fmt.Errorf("help: %w", err)
			}
			fmt.Fprint(h.Stdout, out)
			return plugger.Stop(line), nil
		})
}

// Evaluate evaluates each line and prints the value, or the error to
// Stderr.
func Evaluate(h *Host) {
	plugger.On(h.Editor.Bus(), cli.LineEvent,
		func(ctx context.Context, line string) (plugger.Result[string], error) {
			defer logutil.Timer(logger, "evaluation")()
			v, err := h.Evaler.Eval(ctx, line)
			if err != nil {
				fmt.Fprintln(h.Stderr, errorStyle.Render(err.Error()))
			} else {
				fmt.Fprintln(h.Stdout, eval.Format(v))
			}
			return plugger.Continue(line), nil
		})
}
