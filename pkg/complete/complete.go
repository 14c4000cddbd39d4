// Package complete produces completion candidates for the prompt.
package complete

import (
	"context"

	"github.com/rsify/jay/pkg/logutil"
)

var logger = logutil.GetLogger("[complete] ")

// Candidate is a completion candidate.
type Candidate struct {
	// Text that replaces the completee. It starts with the completee.
	Text string
	// Short label shown next to the text, such as "func" or "number".
	Kind string
}

// Result is the result of a completion query.
type Result struct {
	// The text right before the cursor that the candidates complete.
	Completee string
	// Candidates in groups, best group first.
	Groups [][]Candidate
}

// Flatten returns the candidates of all groups in order. A candidate whose
// text appeared in an earlier group is left out.
func (r Result) Flatten() []Candidate {
	var all []Candidate
	seen := make(map[string]bool)
	for _, group := range r.Groups {
		for _, c := range group {
			if seen[c.Text] {
				continue
			}
			seen[c.Text] = true
			all = append(all, c)
		}
	}
	return all
}

// Provider produces candidates for a line with the cursor at byte offset dot.
type Provider interface {
	Complete(ctx context.Context, line string, dot int) (Result, error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(ctx context.Context, line string, dot int) (Result, error)

func (f ProviderFunc) Complete(ctx context.Context, line string, dot int) (Result, error) {
	return f(ctx, line, dot)
}
