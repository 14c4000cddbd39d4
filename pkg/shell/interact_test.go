package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"

	"github.com/rsify/jay/pkg/cli"
	"github.com/rsify/jay/pkg/cli/clitest"
	"github.com/rsify/jay/pkg/cli/histutil"
	"github.com/rsify/jay/pkg/cli/term"
	"github.com/rsify/jay/pkg/plugger"
	"github.com/rsify/jay/pkg/plugins"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

const hint = "Press `ctrl+d` to exit.\n"

func keys(s string) []term.Event {
	var events []term.Event
	for _, r := range s {
		events = append(events, term.KeyEvent{Key: term.K(r), Seq: string(r)})
	}
	return events
}

var (
	enter = term.KeyEvent{Key: term.K(term.Enter), Seq: "\r"}
	ctrlC = term.KeyEvent{Key: term.K('C', term.Ctrl), Seq: "\x03"}
	ctrlD = term.KeyEvent{Key: term.K('D', term.Ctrl), Seq: "\x04"}
)

// setupInteract creates an editor with the key plugins and a line handler
// recording the lines it sees.
func setupInteract(t *testing.T) (*cli.Editor, clitest.TTYCtrl, *[]string) {
	t.Helper()
	tty, ttyCtrl := clitest.NewFakeTTY()
	ed, err := cli.NewEditor(cli.EditorSpec{TTY: tty})
	if err != nil {
		t.Fatal(err)
	}
	host := &plugins.Host{Editor: ed}
	plugins.Ctrl(host)
	plugins.Return(host)
	plugins.ReadlineInput(host)
	var lines []string
	plugger.On(ed.Bus(), cli.LineEvent,
		func(_ context.Context, line string) (plugger.Result[string], error) {
			lines = append(lines, line)
			return plugger.Continue(line), nil
		})
	return ed, ttyCtrl, &lines
}

func TestInteract(t *testing.T) {
	ed, ttyCtrl, lines := setupInteract(t)
	hist := histutil.NewMemStore()
	ttyCtrl.Queue(append(keys("1 + 2"), enter)...)
	// Empty lines are skipped.
	ttyCtrl.Queue(enter)
	// Abandoned lines are neither recorded nor dispatched.
	ttyCtrl.Queue(append(keys("nope"), ctrlC)...)
	ttyCtrl.Queue(append(keys("x"), enter)...)
	ttyCtrl.Queue(ctrlD)

	var out bytes.Buffer
	if err := Interact(context.Background(), ed, hist, &out); err != nil {
		t.Fatal(err)
	}

	want := []string{"1 + 2", "x"}
	if diff := cmp.Diff(want, *lines); diff != "" {
		t.Errorf("dispatched lines (-want +got):\n%s", diff)
	}
	cmds, _ := hist.AllCmds()
	var texts []string
	for _, cmd := range cmds {
		texts = append(texts, cmd.Text)
	}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestInteract_AbortHint(t *testing.T) {
	ed, ttyCtrl, _ := setupInteract(t)
	ttyCtrl.Queue(ctrlC)
	ttyCtrl.Queue(ctrlD)

	var out bytes.Buffer
	if err := Interact(context.Background(), ed, nil, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != hint {
		t.Errorf("got output %q, want %q", out.String(), hint)
	}
}

func TestInteract_LineHandlerError(t *testing.T) {
	ed, ttyCtrl, _ := setupInteract(t)
	errBad := errors.New("bad line")
	plugger.On(ed.Bus(), cli.LineEvent,
		func(_ context.Context, line string) (plugger.Result[string], error) {
			return plugger.Continue(line), errBad
		})
	ttyCtrl.Queue(append(keys("a"), enter)...)

	if err := Interact(context.Background(), ed, nil, &bytes.Buffer{}); err != errBad {
		t.Errorf("got error %v, want %v", err, errBad)
	}
}

func TestInteract_SessionError(t *testing.T) {
	ed, ttyCtrl, _ := setupInteract(t)
	errSetup := errors.New("no raw mode")
	ttyCtrl.SetSetup(func() {}, errSetup)
	if err := Interact(context.Background(), ed, nil, &bytes.Buffer{}); err != errSetup {
		t.Errorf("got error %v, want %v", err, errSetup)
	}
}
