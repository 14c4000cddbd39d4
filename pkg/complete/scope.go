package complete

import (
	"context"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/expr-lang/expr/builtin"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/rsify/jay/pkg/logutil"
)

// Scope is the environment completion draws names from.
type Scope interface {
	// Globals returns the variables defined at the top level.
	Globals() map[string]any
	// Pure evaluates an expression without side effects.
	Pure(ctx context.Context, src string) (any, error)
}

// Text a dotted access ends with, such as "a.b.c" or "a.".
var accessRegexp = regexp.MustCompile(`[\w$]*(?:\.[\w$]*)*$`)

// NewScopeProvider returns a Provider completing global names and the members
// of values in the scope.
//
// The word before the cursor is completed when the text after the cursor is
// only closing brackets and spaces. A word like "a.b.c" completes the members
// of the value of "a.b" starting with "c"; when "a.b" cannot be evaluated the
// globals starting with the whole word are offered instead. An empty line
// offers all globals.
func NewScopeProvider(s Scope) Provider {
	return scopeProvider{s}
}

type scopeProvider struct{ scope Scope }

func (p scopeProvider) Complete(ctx context.Context, line string, dot int) (Result, error) {
	defer logutil.Timer(logger, "complete")()
	if strings.Trim(line[dot:], ")]} ") != "" {
		return Result{}, nil
	}
	before := line[:dot]
	if strings.TrimSpace(before) == "" {
		return p.globals(""), nil
	}
	word := accessRegexp.FindString(before)
	if word == "" || isDigit(word[0]) {
		return Result{}, nil
	}
	if i := strings.LastIndexByte(word, '.'); i > 0 {
		object, prefix := word[:i], word[i+1:]
		v, err := p.scope.Pure(ctx, object)
		if err == nil {
			return Result{
				Completee: prefix,
				Groups:    [][]Candidate{rank(prefix, members(v))},
			}, nil
		}
		logger.Printf("cannot evaluate %q: %v", object, err)
	}
	return p.globals(word), nil
}

func (p scopeProvider) globals(prefix string) Result {
	var vars []Candidate
	for name, v := range p.scope.Globals() {
		vars = append(vars, Candidate{Text: name, Kind: kindOf(v)})
	}
	var builtins []Candidate
	for _, f := range builtin.Builtins {
		if f.Name != "" && !strings.HasPrefix(f.Name, "$") {
			builtins = append(builtins, Candidate{Text: f.Name, Kind: "builtin"})
		}
	}
	return Result{
		Completee: prefix,
		Groups:    [][]Candidate{rank(prefix, vars), rank(prefix, builtins)},
	}
}

// rank keeps the candidates starting with prefix, best match first. An exact
// match always comes first.
func rank(prefix string, candidates []Candidate) []Candidate {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	ranks := fuzzy.RankFind(prefix, texts)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})
	var ranked []Candidate
	for _, r := range ranks {
		if strings.HasPrefix(r.Target, prefix) {
			ranked = append(ranked, candidates[r.OriginalIndex])
		}
	}
	return ranked
}

// members returns the names that can follow a dot after v.
func members(v any) []Candidate {
	if v == nil {
		return nil
	}
	var cands []Candidate
	rv := reflect.ValueOf(v)
	// Methods are looked up before dereferencing.
	for i := 0; i < rv.NumMethod(); i++ {
		cands = append(cands, Candidate{Text: rv.Type().Method(i).Name, Kind: "func"})
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return cands
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		iter := rv.MapRange()
		for iter.Next() {
			cands = append(cands, Candidate{Text: iter.Key().String(), Kind: kindOf(iter.Value().Interface())})
		}
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() {
				cands = append(cands, Candidate{Text: f.Name, Kind: kindOf(rv.Field(i).Interface())})
			}
		}
	}
	return cands
}

func kindOf(v any) string {
	if v == nil {
		return "var"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func:
		return "func"
	case reflect.Map:
		return "map"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	}
	return "var"
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
