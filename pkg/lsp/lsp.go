// Package lsp implements a language server for files of jay lines.
//
// A document is read as one line of jay per line of text, evaluated top to
// bottom. The server reports lines that do not compile, completes names at
// the cursor and shows the value of the line under the cursor on hover.
package lsp

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/prog"
)

var logger = logutil.GetLogger("[lsp] ")

// Program is the LSP subprogram, run with -lsp.
type Program struct{}

func (*Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if !f.LSP {
		return prog.ErrNotSuitable
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not supported with -lsp")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()), jsonrpc2.SetLogger(logger), jsonrpc2.LogMessages(logger))
	logger.Println("serving on stdio")
	<-conn.DisconnectNotify()
	logger.Println("client disconnected")
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
