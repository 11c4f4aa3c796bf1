package interpreter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrDepthExceeded reports expression or call nesting beyond the configured cap.
var ErrDepthExceeded = errors.New("RangeError: maximum nesting depth exceeded")

// ErrInterrupted is returned by a run stopped through Interpreter.Interrupt.
var ErrInterrupted = errors.New("execution interrupted")

// ReferenceError reports an identifier that is bound nowhere on the scope
// chain.
type ReferenceError struct {
	Name       string
	Suggestion string
}

func (e *ReferenceError) Error() string {
	msg := fmt.Sprintf("ReferenceError: %s is not defined", e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (c *Context) referenceError(name string) error {
	return &ReferenceError{Name: name, Suggestion: suggest(name, c.top().VisibleNames())}
}

// suggest picks the visible name closest to a mistyped one. Names containing
// the typed characters in order rank first; otherwise a small edit distance
// is accepted.
func suggest(name string, candidates []string) string {
	sort.Strings(candidates)
	if ranks := fuzzy.RankFindFold(name, candidates); len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist && d < len(name) {
			best, bestDist = c, d
		}
	}
	return best
}
