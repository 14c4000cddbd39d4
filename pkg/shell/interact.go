package shell

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rsify/jay/pkg/cli"
	"github.com/rsify/jay/pkg/cli/histutil"
	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/plugger"
	"github.com/rsify/jay/pkg/store/storedefs"
)

var (
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle  = hintStyle.Bold(true)
)

// Interact runs prompt sessions until the user exits. Each non-empty line is
// added to hist, if not nil, and dispatched as a LineEvent. Abandoning an
// empty line prints a hint on how to exit to w.
//
// It returns nil when the user exits, and the error of a session or of a line
// handler otherwise.
func Interact(ctx context.Context, ed *cli.Editor, hist histutil.Store, w io.Writer) error {
	for {
		o, err := ed.ReadLine(ctx)
		if err != nil {
			return err
		}
		switch o.Kind {
		case cli.Exit:
			return nil
		case cli.Abort:
			if o.Line == "" {
				fmt.Fprintln(w, hintStyle.Render("Press `"+keyStyle.Render("ctrl+d")+"` to exit."))
			}
		case cli.Line:
			if o.Line == "" {
				continue
			}
			if hist != nil {
				if _, err := hist.AddCmd(storedefs.Cmd{Text: o.Line, Seq: -1}); err != nil {
					logger.Println("adding to history:", err)
				}
			}
			stopTimer := logutil.Timer(logger, "line")
			_, err := plugger.Dispatch(ctx, ed.Bus(), cli.LineEvent, o.Line)
			stopTimer()
			if err != nil {
				return err
			}
		}
	}
}
