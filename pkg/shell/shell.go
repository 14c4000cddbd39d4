// Package shell is the entry point of the interactive REPL. It wires the
// configuration, the history, the evaluator and the plugins to the prompt
// and runs one prompt session after another.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rsify/jay/pkg/cli"
	"github.com/rsify/jay/pkg/cli/histutil"
	"github.com/rsify/jay/pkg/complete"
	"github.com/rsify/jay/pkg/eval"
	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/plugins"
	"github.com/rsify/jay/pkg/prog"
	"github.com/rsify/jay/pkg/rc"
	"github.com/rsify/jay/pkg/store"
	"github.com/rsify/jay/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct {
	// The terminal to prompt on. If nil, the terminal is built from the file
	// descriptors passed to Run, and stdin must be a terminal.
	TTY cli.TTY
}

func (p *Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not supported")
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	if f.Log == "" && cfg.LogFile != "" {
		if err := logutil.SetOutputFile(cfg.LogFile); err != nil {
			fmt.Fprintln(fds[2], "cannot open log file:", err)
		}
	}

	tty := p.TTY
	if tty == nil {
		if !sys.IsATTY(fds[0].Fd()) {
			return cli.ErrNotTerminal
		}
		tty = cli.NewTTY(fds[0], fds[1])
	}

	hist, cleanup := openHistory(cfg, fds[2])
	defer cleanup()

	ev := eval.NewEvaler()
	ed, err := cli.NewEditor(cli.EditorSpec{
		TTY:        tty,
		Completer:  complete.NewScopeProvider(ev),
		MenuHeight: cfg.MenuHeight,
	})
	if err != nil {
		return err
	}
	plugins.Default(&plugins.Host{
		Editor: ed, Evaler: ev, History: hist, Stdout: fds[1], Stderr: fds[2],
	}, cfg.Plugins())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	err = Interact(ctx, ed, hist, fds[1])
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadConfig(f *prog.Flags) (rc.Config, error) {
	if f.NoRc {
		return rc.Default(), nil
	}
	path := f.RC
	if path == "" {
		p, err := rc.Path()
		if err != nil {
			return rc.Config{}, err
		}
		path = p
	}
	return rc.Load(path)
}

// openHistory opens the history database. When it cannot be opened, for
// instance because another jay holds its lock, a warning is printed and the
// history is kept in memory for this run only. It returns nil when the
// history is disabled.
func openHistory(cfg rc.Config, stderr io.Writer) (histutil.Store, func()) {
	if cfg.History.Disabled {
		return nil, func() {}
	}
	db, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "warning: history not saved:", err)
		return histutil.NewLimitedMemStore(cfg.History.Limit), func() {}
	}
	return histutil.NewDBStore(db), func() {
		if err := db.Close(); err != nil {
			logger.Println("closing history:", err)
		}
	}
}

func openStore(cfg rc.Config) (store.DBStore, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	return store.NewStore(path, cfg.History.Limit)
}
