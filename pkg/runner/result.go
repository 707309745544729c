package runner

import (
	"github.com/yaklabco/cheatfind/pkg/match"
	"github.com/yaklabco/cheatfind/pkg/session"
)

// Result is the outcome of a search run.
type Result struct {
	// Outcome is how the session ended.
	Outcome session.Outcome
}

// Selection returns the accepted result, if any.
func (r *Result) Selection() (match.Result, bool) {
	if r == nil || !r.Outcome.Accepted || len(r.Outcome.Selected) == 0 {
		return match.Result{}, false
	}
	return r.Outcome.Selected[0], true
}
