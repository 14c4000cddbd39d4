// Package progtest provides a framework for testing subprograms.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rsify/jay/pkg/prog"
)

// Case is a test case that can be used in Test.
type Case struct {
	args []string
	want result
}

type result struct {
	exitCode int
	out      output
	err      output
}

type output struct {
	content  string
	partial  bool
	anything bool
}

func (o output) matches(s string) bool {
	return o.anything ||
		(o.partial && strings.Contains(s, o.content)) ||
		(!o.partial && s == o.content)
}

// ThatJay returns a new Case with the specified CLI arguments. The first
// argument, "jay", is added automatically.
func ThatJay(args ...string) Case {
	return Case{args: append([]string{"jay"}, args...)}
}

// DoesNothing modifies the test case to expect exit code 0 and no output.
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith modifies the test case to expect the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout modifies the test case to expect the given stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.out = output{content: s}
	return c
}

// WritesStdoutContaining modifies the test case to expect stdout containing s.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.out = output{content: s, partial: true}
	return c
}

// WritesStderr modifies the test case to expect the given stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.err = output{content: s}
	return c
}

// WritesStderrContaining modifies the test case to expect stderr containing
// s.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.err = output{content: s, partial: true}
	return c
}

// WritesAnyStderr modifies the test case to accept any stderr.
func (c Case) WritesAnyStderr() Case {
	c.want.err = output{anything: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(t, p, c.args)
			if r.exitCode != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", r.exitCode, c.want.exitCode)
			}
			if !c.want.out.matches(r.out.content) {
				t.Errorf("got stdout %q, want %s", r.out.content, c.want.out)
			}
			if !c.want.err.matches(r.err.content) {
				t.Errorf("got stderr %q, want %s", r.err.content, c.want.err)
			}
		})
	}
}

func (o output) String() string {
	switch {
	case o.anything:
		return "anything"
	case o.partial:
		return "containing " + quote(o.content)
	default:
		return quote(o.content)
	}
}

func quote(s string) string { return `"` + strings.ReplaceAll(s, "\n", `\n`) + `"` }

// Run runs a Program with the given arguments and empty stdin. It returns the
// exit code and the content of stdout and stderr.
func Run(t *testing.T, p prog.Program, args ...string) (int, string, string) {
	t.Helper()
	r := run(t, p, append([]string{"jay"}, args...))
	return r.exitCode, r.out.content, r.err.content
}

func run(t *testing.T, p prog.Program, args []string) result {
	t.Helper()
	stdin, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	w.Close()
	defer stdin.Close()
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	outCh, errCh := readAll(outR), readAll(errR)

	exit := prog.Run([3]*os.File{stdin, outW, errW}, args, p)
	outW.Close()
	errW.Close()
	return result{exit, output{content: <-outCh}, output{content: <-errCh}}
}

func readAll(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		defer r.Close()
		b, _ := io.ReadAll(r)
		ch <- string(b)
	}()
	return ch
}
