package filter

import "fmt"

// ParseError reports a malformed filter spec or workspace file.
type ParseError struct {
	Spec   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("filter: invalid spec %q: %s", e.Spec, e.Reason)
}

// NotReversibleError names the filter variant that has no Unapply.
type NotReversibleError struct {
	Spec string
}

func (e *NotReversibleError) Error() string {
	return fmt.Sprintf("filter: not reversible: %s", e.Spec)
}
