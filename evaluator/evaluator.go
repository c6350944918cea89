// Package evaluator defines the closed sum type of predicates a selector
// compiles to: leaf predicates over a single node, structural wrappers that
// consult the surrounding tree, and combining evaluators (AND/OR) that
// compose them. An Evaluator is immutable and acyclic once it leaves the
// package's constructors; the only exception is the mutable-builder phase
// of Or, used exclusively while a selector is being parsed (see RightMost
// and ReplaceRightMost).
//
// Mirrors the host's evaluator module: it is a dependency this parser
// consumes, not a runtime that walks a document. No Evaluator here knows
// how to match a node; that is the concern of whatever embeds this package.
package evaluator

import "github.com/dlclark/regexp2"

// Evaluator is the marker interface every predicate in the tree implements.
type Evaluator interface {
	evaluator()
}

// Leaf is an Evaluator that tests a single node in isolation.
type Leaf interface {
	Evaluator
	leaf()
}

// Structural is an Evaluator that wraps exactly one inner Evaluator and
// consults the node's surrounding tree (parent, siblings) to decide a match.
type Structural interface {
	Evaluator
	Inner() Evaluator
	structural()
}

// Combining is an Evaluator composed of zero or more children.
type Combining interface {
	Evaluator
	Children() []Evaluator
	combining()
}

// --- leaf predicates ---------------------------------------------------

type Tag struct{ Name string }
type TagEndsWith struct{ Suffix string }
type Id struct{ ID string }
type Class struct{ Name string }
type AllElements struct{}
type Attribute struct{ Key string }
type AttributeStarting struct{ Prefix string }
type AttributeWithValue struct{ Key, Value string }
type AttributeWithValueNot struct{ Key, Value string }
type AttributeWithValueStarting struct{ Key, Value string }
type AttributeWithValueEnding struct{ Key, Value string }
type AttributeWithValueContaining struct{ Key, Value string }
type AttributeWithValueMatching struct {
	Key     string
	Pattern *regexp2.Regexp
}
type ContainsText struct{ Text string }
type ContainsOwnText struct{ Text string }
type ContainsData struct{ Text string }
type Matches struct{ Pattern *regexp2.Regexp }
type MatchesOwn struct{ Pattern *regexp2.Regexp }
type MatchText struct{}

func (*Tag) evaluator()                          {}
func (*TagEndsWith) evaluator()                  {}
func (*Id) evaluator()                           {}
func (*Class) evaluator()                        {}
func (*AllElements) evaluator()                  {}
func (*Attribute) evaluator()                    {}
func (*AttributeStarting) evaluator()            {}
func (*AttributeWithValue) evaluator()           {}
func (*AttributeWithValueNot) evaluator()        {}
func (*AttributeWithValueStarting) evaluator()   {}
func (*AttributeWithValueEnding) evaluator()     {}
func (*AttributeWithValueContaining) evaluator() {}
func (*AttributeWithValueMatching) evaluator()   {}
func (*ContainsText) evaluator()                 {}
func (*ContainsOwnText) evaluator()              {}
func (*ContainsData) evaluator()                 {}
func (*Matches) evaluator()                      {}
func (*MatchesOwn) evaluator()                   {}
func (*MatchText) evaluator()                    {}

func (*Tag) leaf()                          {}
func (*TagEndsWith) leaf()                  {}
func (*Id) leaf()                           {}
func (*Class) leaf()                        {}
func (*AllElements) leaf()                  {}
func (*Attribute) leaf()                    {}
func (*AttributeStarting) leaf()            {}
func (*AttributeWithValue) leaf()           {}
func (*AttributeWithValueNot) leaf()        {}
func (*AttributeWithValueStarting) leaf()   {}
func (*AttributeWithValueEnding) leaf()     {}
func (*AttributeWithValueContaining) leaf() {}
func (*AttributeWithValueMatching) leaf()   {}
func (*ContainsText) leaf()                 {}
func (*ContainsOwnText) leaf()              {}
func (*ContainsData) leaf()                 {}
func (*Matches) leaf()                      {}
func (*MatchesOwn) leaf()                   {}
func (*MatchText) leaf()                    {}

// --- index predicates ----------------------------------------------------

type IndexLessThan struct{ N int }
type IndexGreaterThan struct{ N int }
type IndexEquals struct{ N int }
type IsNthChild struct{ A, B int }
type IsNthLastChild struct{ A, B int }
type IsNthOfType struct{ A, B int }
type IsNthLastOfType struct{ A, B int }
type IsFirstChild struct{}
type IsLastChild struct{}
type IsFirstOfType struct{}
type IsLastOfType struct{}
type IsOnlyChild struct{}
type IsOnlyOfType struct{}
type IsEmpty struct{}
type IsRoot struct{}

func (*IndexLessThan) evaluator()    {}
func (*IndexGreaterThan) evaluator() {}
func (*IndexEquals) evaluator()      {}
func (*IsNthChild) evaluator()       {}
func (*IsNthLastChild) evaluator()   {}
func (*IsNthOfType) evaluator()      {}
func (*IsNthLastOfType) evaluator()  {}
func (*IsFirstChild) evaluator()     {}
func (*IsLastChild) evaluator()      {}
func (*IsFirstOfType) evaluator()    {}
func (*IsLastOfType) evaluator()     {}
func (*IsOnlyChild) evaluator()      {}
func (*IsOnlyOfType) evaluator()     {}
func (*IsEmpty) evaluator()          {}
func (*IsRoot) evaluator()           {}

func (*IndexLessThan) leaf()    {}
func (*IndexGreaterThan) leaf() {}
func (*IndexEquals) leaf()      {}
func (*IsNthChild) leaf()       {}
func (*IsNthLastChild) leaf()   {}
func (*IsNthOfType) leaf()      {}
func (*IsNthLastOfType) leaf()  {}
func (*IsFirstChild) leaf()     {}
func (*IsLastChild) leaf()      {}
func (*IsFirstOfType) leaf()    {}
func (*IsLastOfType) leaf()     {}
func (*IsOnlyChild) leaf()      {}
func (*IsOnlyOfType) leaf()     {}
func (*IsEmpty) leaf()          {}
func (*IsRoot) leaf()           {}

// --- structural wrappers --------------------------------------------------

// Root matches only the root node of the tree under evaluation; unlike the
// other structural wrappers it carries no inner evaluator.
type Root struct{}

type Parent struct{ In Evaluator }
type ImmediateParent struct{ In Evaluator }
type PreviousSibling struct{ In Evaluator }
type ImmediatePreviousSibling struct{ In Evaluator }
type Has struct{ In Evaluator }
type Not struct{ In Evaluator }

func (*Root) evaluator()                     {}
func (*Parent) evaluator()                   {}
func (*ImmediateParent) evaluator()          {}
func (*PreviousSibling) evaluator()          {}
func (*ImmediatePreviousSibling) evaluator() {}
func (*Has) evaluator()                      {}
func (*Not) evaluator()                      {}

func (*Root) leaf() {} // Root has no inner evaluator to consult; treated as a leaf.

func (*Parent) structural()                   {}
func (*ImmediateParent) structural()          {}
func (*PreviousSibling) structural()          {}
func (*ImmediatePreviousSibling) structural() {}
func (*Has) structural()                      {}
func (*Not) structural()                      {}

func (e *Parent) Inner() Evaluator                   { return e.In }
func (e *ImmediateParent) Inner() Evaluator          { return e.In }
func (e *PreviousSibling) Inner() Evaluator          { return e.In }
func (e *ImmediatePreviousSibling) Inner() Evaluator { return e.In }
func (e *Has) Inner() Evaluator                      { return e.In }
func (e *Not) Inner() Evaluator                      { return e.In }

// --- combining evaluators -------------------------------------------------

// And matches when every child matches.
type And struct{ children []Evaluator }

// Or matches when any child matches. Its rightmost child may be replaced
// in place while the parser is still building the surrounding tree (see
// combinator folding in the root package); once parsing returns, callers
// must treat it as immutable.
type Or struct{ children []Evaluator }

func (*And) evaluator() {}
func (*Or) evaluator()  {}

func (*And) combining() {}
func (*Or) combining()  {}

func (e *And) Children() []Evaluator { return e.children }
func (e *Or) Children() []Evaluator  { return e.children }

// NewAnd builds an And over the given evaluators. A single evaluator is
// returned unwrapped, matching the rule that a surfaced And never carries
// exactly one child.
func NewAnd(evals ...Evaluator) Evaluator {
	if len(evals) == 1 {
		return evals[0]
	}
	return &And{children: append([]Evaluator(nil), evals...)}
}

// NewOr builds an Or over the given evaluators. It always carries at least
// two children once surfaced, per the package invariant.
func NewOr(evals ...Evaluator) *Or {
	return &Or{children: append([]Evaluator(nil), evals...)}
}

// Add appends an evaluator to the Or's child list. Used only while folding
// a trailing "," combinator into an existing Or.
func (e *Or) Add(eval Evaluator) {
	e.children = append(e.children, eval)
}

// RightMost returns the last child of the Or, for OR-lowest-precedence
// rewriting: "a, b > c" parses as Or(a, And(c, ImmediateParent(b))), built by
// grafting onto the Or's rightmost slot rather than wrapping the whole Or.
func (e *Or) RightMost() Evaluator {
	return e.children[len(e.children)-1]
}

// ReplaceRightMost overwrites the Or's last child, completing the graft
// RightMost set up.
func (e *Or) ReplaceRightMost(eval Evaluator) {
	e.children[len(e.children)-1] = eval
}
