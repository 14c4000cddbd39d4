// Package eval evaluates the lines entered at the prompt as expressions.
//
// Expressions use the language of github.com/expr-lang/expr. On top of that a
// line of the form "name = expr" assigns the value of expr to a global
// variable, and the value of the last evaluated line is kept in "_".
package eval

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/conf"
	"github.com/expr-lang/expr/vm"

	"github.com/rsify/jay/pkg/logutil"
)

var logger = logutil.GetLogger("[eval] ")

// LastValue is the name of the variable holding the last value.
const LastValue = "_"

// ErrSideEffect is returned by Evaler.Pure for code that would assign.
var ErrSideEffect = errors.New("expression has side effects")

// Limits of Pure, which runs on every redraw. Eval uses the defaults of expr.
const (
	pureMaxNodes     = 1000
	pureMemoryBudget = 100_000
)

var assignRegexp = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*=(.*)$`)

// Evaler holds the global variables and evaluates code against them. It is
// safe for concurrent use.
type Evaler struct {
	mutex   sync.Mutex
	globals map[string]any
}

// NewEvaler creates an Evaler with no global variables.
func NewEvaler() *Evaler {
	return &Evaler{globals: make(map[string]any)}
}

// Define sets a global variable.
func (ev *Evaler) Define(name string, v any) {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	ev.globals[name] = v
}

// Globals returns a copy of the global variables.
func (ev *Evaler) Globals() map[string]any {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	return maps.Clone(ev.globals)
}

// Eval evaluates a line, performing the assignment if it is one. The value is
// stored in LastValue.
func (ev *Evaler) Eval(ctx context.Context, src string) (any, error) {
	name, body := splitAssignment(src)
	if name != "" && strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("missing value to assign to %s", name)
	}
	v, err := run(ctx, body, ev.Globals(), conf.DefaultMaxNodes, conf.DefaultMemoryBudget)
	if err != nil {
		return nil, err
	}
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	if name != "" {
		ev.globals[name] = v
	}
	ev.globals[LastValue] = v
	return v, nil
}

// Pure evaluates an expression without changing any variable. Assignments
// fail with ErrSideEffect. The size of the expression and the memory it may
// allocate are limited more tightly than for Eval.
//
// It returns ctx.Err() if ctx is done before the evaluation finishes. The
// context only bounds how long Pure waits: an abandoned evaluation keeps
// running until it finishes or exceeds its memory budget.
func (ev *Evaler) Pure(ctx context.Context, src string) (any, error) {
	if name, _ := splitAssignment(src); name != "" {
		return nil, ErrSideEffect
	}
	return run(ctx, src, ev.Globals(), pureMaxNodes, pureMemoryBudget)
}

// Check reports syntax errors in a line without evaluating it. Names that are
// not defined yet are allowed.
func Check(src string) error {
	name, body := splitAssignment(src)
	if name != "" && strings.TrimSpace(body) == "" {
		return fmt.Errorf("missing value to assign to %s", name)
	}
	_, err := expr.Compile(body, expr.AllowUndefinedVariables())
	return err
}

func splitAssignment(src string) (name, body string) {
	m := assignRegexp.FindStringSubmatch(src)
	if m == nil || strings.HasPrefix(m[2], "=") {
		return "", src
	}
	return m[1], m[2]
}

func run(ctx context.Context, src string, env map[string]any, maxNodes, budget uint) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	program, err := expr.Compile(src, expr.Env(env), expr.MaxNodes(maxNodes))
	if err != nil {
		return nil, err
	}
	type result struct {
		v   any
		err error
	}
	ch := make(chan result, 1)
	go func() {
		machine := vm.VM{MemoryBudget: budget}
		v, err := machine.Run(program, env)
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		logger.Printf("evaluation of %q abandoned: %v", src, ctx.Err())
		return nil, ctx.Err()
	}
}
