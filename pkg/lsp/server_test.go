package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/rsify/jay/pkg/testutil"
)

const uri = lsp.DocumentURI("file:///test.jay")

type client struct {
	conn  *jsonrpc2.Conn
	diags chan lsp.PublishDiagnosticsParams
}

func setup(t *testing.T) *client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	serverSide, clientSide := net.Pipe()
	serverConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()))

	c := &client{diags: make(chan lsp.PublishDiagnosticsParams, 10)}
	c.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
				var params lsp.PublishDiagnosticsParams
				if err := json.Unmarshal(*req.Params, &params); err == nil {
					c.diags <- params
				}
			}
			return nil, nil
		}))
	t.Cleanup(func() {
		c.conn.Close()
		serverConn.Close()
		cancel()
	})
	return c
}

func (c *client) open(t *testing.T, text string) {
	t.Helper()
	err := c.conn.Notify(context.Background(), "textDocument/didOpen",
		lsp.DidOpenTextDocumentParams{
			TextDocument: lsp.TextDocumentItem{URI: uri, LanguageID: "jay", Text: text}})
	if err != nil {
		t.Fatal(err)
	}
}

func (c *client) call(t *testing.T, method string, params, result any) {
	t.Helper()
	if err := c.conn.Call(context.Background(), method, params, result); err != nil {
		t.Fatalf("%s -> error %v", method, err)
	}
}

func (c *client) nextDiags(t *testing.T) lsp.PublishDiagnosticsParams {
	t.Helper()
	select {
	case d := <-c.diags:
		return d
	case <-time.After(testutil.Scaled(time.Second)):
		t.Fatal("no diagnostics published")
		panic("unreachable")
	}
}

func position(line, char int) lsp.TextDocumentPositionParams {
	return lsp.TextDocumentPositionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: uri},
		Position:     lsp.Position{Line: line, Character: char},
	}
}

func TestInitialize(t *testing.T) {
	c := setup(t)
	var result lsp.InitializeResult
	c.call(t, "initialize", lsp.InitializeParams{}, &result)
	caps := result.Capabilities
	if !caps.HoverProvider {
		t.Errorf("hover not advertised")
	}
	if caps.CompletionProvider == nil {
		t.Errorf("completion not advertised")
	}
}

func TestDiagnostics(t *testing.T) {
	c := setup(t)
	c.open(t, "x = 1\n1 +\n\ny = x * 2")
	d := c.nextDiags(t)
	if d.URI != uri {
		t.Errorf("diagnostics for %q, want %q", d.URI, uri)
	}
	if len(d.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(d.Diagnostics), d.Diagnostics)
	}
	diag := d.Diagnostics[0]
	wantRange := lsp.Range{Start: lsp.Position{Line: 1}, End: lsp.Position{Line: 1, Character: 3}}
	if diff := cmp.Diff(wantRange, diag.Range); diff != "" {
		t.Errorf("range (-want +got):\n%s", diff)
	}
	if diag.Severity != lsp.Error || diag.Source != "jay" || diag.Message == "" {
		t.Errorf("got diagnostic %+v", diag)
	}

	err := c.conn.Notify(context.Background(), "textDocument/didChange",
		lsp.DidChangeTextDocumentParams{
			TextDocument:   lsp.VersionedTextDocumentIdentifier{TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: uri}},
			ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: "1 + 2"}},
		})
	if err != nil {
		t.Fatal(err)
	}
	if d := c.nextDiags(t); len(d.Diagnostics) != 0 {
		t.Errorf("got diagnostics %v after fix, want none", d.Diagnostics)
	}
}

func findItem(items []lsp.CompletionItem, label string) (lsp.CompletionItem, bool) {
	for _, item := range items {
		if item.Label == label {
			return item, true
		}
	}
	return lsp.CompletionItem{}, false
}

func TestCompletion(t *testing.T) {
	c := setup(t)
	c.open(t, "obj = {name: 'x', num: 1}\nabc = 1\nobj.n\nab")
	c.nextDiags(t)

	var items []lsp.CompletionItem
	c.call(t, "textDocument/completion",
		lsp.CompletionParams{TextDocumentPositionParams: position(2, 5)}, &items)
	wantRange := lsp.Range{
		Start: lsp.Position{Line: 2, Character: 4}, End: lsp.Position{Line: 2, Character: 5}}
	for _, label := range []string{"name", "num"} {
		item, ok := findItem(items, label)
		if !ok {
			t.Errorf("no item %q in %v", label, items)
			continue
		}
		if item.Kind != lsp.CIKValue {
			t.Errorf("item %q has kind %v, want value", label, item.Kind)
		}
		if item.TextEdit == nil || item.TextEdit.NewText != label ||
			item.TextEdit.Range != wantRange {
			t.Errorf("item %q has text edit %+v", label, item.TextEdit)
		}
	}

	items = nil
	c.call(t, "textDocument/completion",
		lsp.CompletionParams{TextDocumentPositionParams: position(3, 2)}, &items)
	if _, ok := findItem(items, "abc"); !ok {
		t.Errorf("variable from an earlier line not offered: %v", items)
	}
	if _, ok := findItem(items, "obj"); ok {
		t.Errorf("obj offered for prefix ab")
	}
}

func TestHover(t *testing.T) {
	c := setup(t)
	c.open(t, "x = 2\nx * 21\n\nx = ")
	c.nextDiags(t)

	var h lsp.Hover
	c.call(t, "textDocument/hover", position(1, 2), &h)
	if len(h.Contents) != 1 || h.Contents[0].Value != "42" {
		t.Errorf("hover contents %v, want 42", h.Contents)
	}

	for _, pos := range []lsp.TextDocumentPositionParams{position(2, 0), position(3, 1)} {
		h = lsp.Hover{}
		c.call(t, "textDocument/hover", pos, &h)
		if len(h.Contents) != 0 {
			t.Errorf("hover at %v has contents %v", pos.Position, h.Contents)
		}
	}
}

func TestDidClose(t *testing.T) {
	c := setup(t)
	c.open(t, "abc = 1\nab")
	c.nextDiags(t)
	err := c.conn.Notify(context.Background(), "textDocument/didClose",
		lsp.DidCloseTextDocumentParams{TextDocument: lsp.TextDocumentIdentifier{URI: uri}})
	if err != nil {
		t.Fatal(err)
	}
	var items []lsp.CompletionItem
	c.call(t, "textDocument/completion",
		lsp.CompletionParams{TextDocumentPositionParams: position(1, 2)}, &items)
	if _, ok := findItem(items, "abc"); ok {
		t.Errorf("closed document still completes")
	}
}

func TestUnknownMethod(t *testing.T) {
	c := setup(t)
	err := c.conn.Call(context.Background(), "workspace/symbol", nil, nil)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}
}

func TestPositions(t *testing.T) {
	s := "a\r\nb\U0001F600c\nd"
	tests := []struct {
		idx int
		pos lsp.Position
	}{
		{0, lsp.Position{Line: 0, Character: 0}},
		{3, lsp.Position{Line: 1, Character: 0}},
		{8, lsp.Position{Line: 1, Character: 3}},
		{10, lsp.Position{Line: 2, Character: 0}},
		{11, lsp.Position{Line: 2, Character: 1}},
	}
	for _, tc := range tests {
		if got := lspPositionFromIdx(s, tc.idx); got != tc.pos {
			t.Errorf("lspPositionFromIdx(%d) -> %v, want %v", tc.idx, got, tc.pos)
		}
		if got := lspPositionToIdx(s, tc.pos); got != tc.idx {
			t.Errorf("lspPositionToIdx(%v) -> %d, want %d", tc.pos, got, tc.idx)
		}
	}
}

func TestSplitLines(t *testing.T) {
	s := "a\r\nbc\rd\n"
	want := []line{{0, 1}, {3, 5}, {6, 7}, {8, 8}}
	if diff := cmp.Diff(want, splitLines(s), cmp.AllowUnexported(line{})); diff != "" {
		t.Errorf("splitLines (-want +got):\n%s", diff)
	}
	if got := lineAt(s, 4); got != (line{3, 5}) {
		t.Errorf("lineAt(4) -> %v, want {3 5}", got)
	}
}
