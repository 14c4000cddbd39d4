// Package plugins implements the behaviors of the prompt on top of the event
// bus of the editor: key bindings, the decorations of the prompt line, and the
// evaluation of entered lines.
package plugins

import (
	"context"
	"io"
	"time"

	"github.com/rsify/jay/pkg/cli"
	"github.com/rsify/jay/pkg/cli/histutil"
	"github.com/rsify/jay/pkg/cli/term"
	"github.com/rsify/jay/pkg/eval"
	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/plugger"
)

var logger = logutil.GetLogger("[plugins] ")

// Host is the program the plugins run in.
type Host struct {
	Editor *cli.Editor
	Evaler *eval.Evaler
	// History walked by HistoryWalk. May be nil.
	History histutil.Store
	// Where the results and errors of evaluation are written.
	Stdout, Stderr io.Writer
}

// Config configures Default.
type Config struct {
	Prompt         string
	HighlightStyle string
	EagerTimeout   time.Duration
	NoHighlight    bool
	NoEager        bool
	NoPairs        bool
}

// Default registers all plugins on the host. The order of registration is
// the order handlers run in, so the prompt is prepended after highlighting,
// and the catch-all line editing comes last.
func Default(h *Host, cfg Config) {
	if !cfg.NoHighlight {
		Highlight(h, cfg.HighlightStyle)
	}
	PS1(h, cfg.Prompt)

	Help(h)
	Evaluate(h)
	if !cfg.NoEager {
		Eager(h, cfg.EagerTimeout)
	}

	Ctrl(h)
	if !cfg.NoPairs {
		Pairs(h)
	}
	if h.History != nil {
		HistoryWalk(h)
	}
	Return(h)
	ReadlineInput(h)
}

// keyHandler adapts a function reporting whether it handled a key to a
// keypress handler that stops the chain after handled keys.
func keyHandler(h *Host, f func(*cli.Session, term.Keypress) (bool, error)) plugger.Handler[term.Keypress] {
	return func(ctx context.Context, kp term.Keypress) (plugger.Result[term.Keypress], error) {
		s := h.Editor.Session()
		if s == nil {
			return plugger.Continue(kp), nil
		}
		handled, err := f(s, kp)
		if err != nil || !handled {
			return plugger.Continue(kp), err
		}
		return plugger.Stop(kp), nil
	}
}

func onKey(h *Host, f func(*cli.Session, term.Keypress) (bool, error)) {
	plugger.On(h.Editor.Bus(), cli.KeypressEvent, keyHandler(h, f))
}

func onRender(h *Host, f func(context.Context, cli.Render) cli.Render) {
	plugger.On(h.Editor.Bus(), cli.RenderEvent,
		func(ctx context.Context, r cli.Render) (plugger.Result[cli.Render], error) {
			return plugger.Continue(f(ctx, r)), nil
		})
}
