package lang

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/sergev/plam/parser"
)

// Env implements a lexical environment chain. Closures hold on to the frame
// they were created in, so a frame lives as long as any function that
// captured it.
type Env struct {
	parent *Env
	values map[string]Value
}

// NewEnv creates an environment with optional parent.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Define binds name to value in the current frame, replacing any previous
// binding of that name in this frame.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Get retrieves the nearest binding of name, searching parents if necessary.
func (e *Env) Get(name parser.Token) (Value, error) {
	for env := e; env != nil; env = env.parent {
		val, ok := env.values[name.Lexeme]
		if !ok {
			continue
		}
		if val.Type == TypeUninitialized {
			return Value{}, NewRuntimeError(name,
				fmt.Sprintf("Attempted to access uninitialized variable '%s'.", name.Lexeme))
		}
		return val, nil
	}
	return Value{}, e.undefined(name)
}

// Assign updates the nearest existing binding of name.
func (e *Env) Assign(name parser.Token, val Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = val
			return nil
		}
	}
	return e.undefined(name)
}

// Names lists every name visible from this frame, innermost first.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.parent {
		local := make([]string, 0, len(env.values))
		for name := range env.values {
			if !seen[name] {
				seen[name] = true
				local = append(local, name)
			}
		}
		sort.Strings(local)
		names = append(names, local...)
	}
	return names
}

func (e *Env) undefined(name parser.Token) error {
	err := NewRuntimeError(name, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
	if guess := suggest(name.Lexeme, e.Names()); guess != "" {
		err.Hint = fmt.Sprintf("Did you mean '%s'?", guess)
	}
	return err
}

// suggest picks the visible name closest to an unknown one, accepting
// candidates that fuzzily contain it or are contained by it.
func suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	for _, cand := range candidates {
		if len(cand) < len(name) && fuzzy.MatchFold(cand, name) {
			ranks = append(ranks, fuzzy.Rank{
				Source:   name,
				Target:   cand,
				Distance: fuzzy.LevenshteinDistance(name, cand),
			})
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Stable(ranks)
	if best := ranks[0]; best.Distance <= len(name) {
		return best.Target
	}
	return ""
}
