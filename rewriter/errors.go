package rewriter

import "errors"

// ErrNotReversible is a sentinel for filters that have no inverse. The
// Unapply implementations in package filter do not return or wrap it; they
// return a *filter.NotReversibleError naming the offending spec.
var ErrNotReversible = errors.New("rewriter: filter not reversible")
