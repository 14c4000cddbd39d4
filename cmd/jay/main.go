// Jay is an interactive prompt for evaluating expressions, with completion as
// you type, a preview of the value of the line and persistent history.
package main

import (
	"os"

	"github.com/rsify/jay/pkg/buildinfo"
	"github.com/rsify/jay/pkg/lsp"
	"github.com/rsify/jay/pkg/pprof"
	"github.com/rsify/jay/pkg/prog"
	"github.com/rsify/jay/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		pprof.Wrap(prog.Composite(
			buildinfo.Program, &lsp.Program{}, &shell.Program{}))))
}
