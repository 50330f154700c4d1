package catalog

import (
	"fmt"
	"strings"

	"github.com/quillscript/quill/internal/types"
)

// DuplicateError reports an attempt to register an identity already claimed
// by either catalog. This is the sole mechanism preventing a script from
// redefining a built-in or a previously declared script symbol.
type DuplicateError struct {
	Name   string
	Domain types.Domain
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s declaration %q", e.Domain, e.Name)
}

// UnknownError reports a name or identity that resolves to nothing in
// either catalog.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown reference %q", e.Name)
}

// NoMatchError reports a call whose overload group has no viable candidate
// for the given argument types.
type NoMatchError struct {
	Name       string
	Candidates []string
}

func (e *NoMatchError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no matching overload for %q", e.Name)
	}
	return fmt.Sprintf("no matching overload for %q, candidates: %s",
		e.Name, strings.Join(e.Candidates, "; "))
}

// AmbiguousError reports a call with two or more equally specific viable
// candidates. Never resolved by declaration order; always a hard error.
type AmbiguousError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous call to %q, candidates: %s",
		e.Name, strings.Join(e.Candidates, "; "))
}
