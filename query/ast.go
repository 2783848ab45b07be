// Package query holds the normalized JSONPath query AST consumed by the
// matching engine. The core never sees query text, only this AST: the
// textual grammar is parsed here and handed downstream already resolved.
package query

import "fmt"

// Scope distinguishes a selector that applies only to direct children of
// its activating container from one that applies at any depth beneath it.
type Scope uint8

const (
	// Child selectors only match direct members/elements of the container
	// in which they became alive.
	Child Scope = iota
	// Descendant selectors match at any depth at or below that container.
	Descendant
)

func (s Scope) String() string {
	if s == Descendant {
		return "descendant"
	}
	return "child"
}

// Kind identifies the predicate a Selector carries.
type Kind uint8

const (
	// KindRoot matches the top-level JSON value. Always first, never repeated.
	KindRoot Kind = iota
	// KindName matches an object member whose key equals Name exactly.
	KindName
	// KindIndex matches the array element at the zero-based position Index.
	KindIndex
	// KindWildcard matches every direct child (object member or array element).
	KindWildcard
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindName:
		return "name"
	case KindIndex:
		return "index"
	case KindWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// Selector is one step of a query. Root is always selectors[0] with
// Scope == Child; every other selector carries the scope it was reached
// through (".." produces Descendant, "." and "[...]" produce Child).
type Selector struct {
	Kind Kind
	Scope

	// Name is the exact octet sequence expected between the quotes of a
	// matching key literal, i.e. still JSON-escaped. See Escape.
	Name string

	// Index is the zero-based array position for KindIndex selectors.
	Index int
}

func (s Selector) String() string {
	switch s.Kind {
	case KindRoot:
		return "$"
	case KindWildcard:
		if s.Scope == Descendant {
			return "..*"
		}
		return "*"
	case KindName:
		if s.Scope == Descendant {
			return fmt.Sprintf("..%s", s.Name)
		}
		return fmt.Sprintf(".%s", s.Name)
	case KindIndex:
		if s.Scope == Descendant {
			return fmt.Sprintf("..[%d]", s.Index)
		}
		return fmt.Sprintf("[%d]", s.Index)
	default:
		return "?"
	}
}

// Query is the ordered, non-empty-or-empty sequence of selectors the
// matching engine compiles into an automaton. A Query with zero
// Selectors is the "empty query": it is a valid, legal input and matches
// nothing, not even the root (see ParseError semantics in Parse).
type Query struct {
	Selectors []Selector
}

// Empty reports whether q has no selectors at all (the distinguished
// empty-query case, not to be confused with "$" which has one: Root).
func (q Query) Empty() bool {
	return len(q.Selectors) == 0
}
