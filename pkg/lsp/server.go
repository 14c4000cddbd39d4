package lsp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/rsify/jay/pkg/complete"
	"github.com/rsify/jay/pkg/eval"
)

// Time each line gets when lines are evaluated to build up the variables in
// scope.
const evalTimeout = 50 * time.Millisecond

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"initialized": noop,
		"shutdown":    noop,
		"exit":        noop,
		// Sent by some clients even when the server doesn't advertise support.
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Println("unsupported method", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{TriggerCharacters: []string{"."}},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// Only full-text changes are advertised in initialize.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(ctx context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	idx := lspPositionToIdx(content, params.Position)
	ln := lineAt(content, idx)
	src := content[ln.from:ln.to]
	if strings.TrimSpace(src) == "" {
		return lsp.Hover{}, nil
	}
	ev := evalerBefore(ctx, content, ln.from)
	ctx, cancel := context.WithTimeout(ctx, evalTimeout)
	defer cancel()
	v, err := ev.Pure(ctx, src)
	if err != nil {
		return lsp.Hover{}, nil
	}
	rg := lspRange(content, ln.from, ln.to)
	return lsp.Hover{
		Contents: []lsp.MarkedString{lsp.RawMarkedString(eval.Format(v))},
		Range:    &rg,
	}, nil
}

func (s *server) completion(ctx context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	idx := lspPositionToIdx(content, params.Position)
	ln := lineAt(content, idx)
	ev := evalerBefore(ctx, content, ln.from)
	result, err := complete.NewScopeProvider(ev).Complete(
		ctx, content[ln.from:ln.to], idx-ln.from)
	if err != nil {
		logger.Println("completion:", err)
		return []lsp.CompletionItem{}, nil
	}

	candidates := result.Flatten()
	items := make([]lsp.CompletionItem, len(candidates))
	replace := lspRange(content, idx-len(result.Completee), idx)
	for i, c := range candidates {
		items[i] = lsp.CompletionItem{
			Label:  c.Text,
			Kind:   completionKind(c.Kind),
			Detail: c.Kind,
			TextEdit: &lsp.TextEdit{
				Range:   replace,
				NewText: c.Text,
			},
		}
	}
	return items, nil
}

func completionKind(kind string) lsp.CompletionItemKind {
	switch kind {
	case "func", "builtin":
		return lsp.CIKFunction
	case "map":
		return lsp.CIKStruct
	case "number", "string", "bool", "list":
		return lsp.CIKValue
	default:
		return lsp.CIKVariable
	}
}

// Evaluates the lines of content before the given index, so that the
// variables they assign are in scope. Errors are ignored.
func evalerBefore(ctx context.Context, content string, end int) *eval.Evaler {
	ev := eval.NewEvaler()
	for _, ln := range splitLines(content[:end]) {
		src := content[ln.from:ln.to]
		if strings.TrimSpace(src) == "" {
			continue
		}
		lineCtx, cancel := context.WithTimeout(ctx, evalTimeout)
		ev.Eval(lineCtx, src)
		cancel()
	}
	return ev
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	err := conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(content)})
	if err != nil {
		logger.Println("publish diagnostics:", err)
	}
}

func diagnostics(content string) []lsp.Diagnostic {
	diags := []lsp.Diagnostic{}
	for _, ln := range splitLines(content) {
		src := content[ln.from:ln.to]
		if strings.TrimSpace(src) == "" {
			continue
		}
		if err := eval.Check(src); err != nil {
			msg, _, _ := strings.Cut(err.Error(), "\n")
			diags = append(diags, lsp.Diagnostic{
				Range:    lspRange(content, ln.from, ln.to),
				Severity: lsp.Error,
				Source:   "jay",
				Message:  msg,
			})
		}
	}
	return diags
}

// A line of a document, as byte offsets excluding the line terminator.
type line struct{ from, to int }

func splitLines(s string) []line {
	var lines []line
	from := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			lines = append(lines, line{from, i})
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			from = i + 1
		case '\n':
			lines = append(lines, line{from, i})
			from = i + 1
		}
	}
	return append(lines, line{from, len(s)})
}

func lineAt(s string, idx int) line {
	from := strings.LastIndexAny(s[:idx], "\r\n") + 1
	to := len(s)
	if i := strings.IndexAny(s[idx:], "\r\n"); i != -1 {
		to = idx + i
	}
	return line{from, to}
}

func lspRange(s string, from, to int) lsp.Range {
	return lsp.Range{
		Start: lspPositionFromIdx(s, from),
		End:   lspPositionFromIdx(s, to),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if r == '\n' && lastCR {
			// The \n of \r\n has no position of its own.
			lastCR = false
			continue
		}
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r', r == '\n':
			p.Line++
			p.Character = 0
		case r <= 0xFFFF:
			// One UTF-16 unit.
			p.Character++
		default:
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
