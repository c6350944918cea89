package cssselect

import (
	"fmt"
	"os"
)

// Kind distinguishes the ways a selector string can fail to parse.
type Kind int

const (
	UnexpectedToken Kind = iota
	EmptyRequiredToken
	UnbalancedDelimiter
	QueueMismatch
	BadIndex
	BadNthFormula
	UnknownCombinator
	RegexCompile
)

func (k Kind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case EmptyRequiredToken:
		return "EmptyRequiredToken"
	case UnbalancedDelimiter:
		return "UnbalancedDelimiter"
	case QueueMismatch:
		return "QueueMismatch"
	case BadIndex:
		return "BadIndex"
	case BadNthFormula:
		return "BadNthFormula"
	case UnknownCombinator:
		return "UnknownCombinator"
	case RegexCompile:
		return "RegexCompile"
	default:
		return "Unknown"
	}
}

// SelectorParseError reports why ParseSelector rejected a query, along with
// the query text held by the parser that failed and the byte offset into
// that text at which it gave up. When the failure is inside a combinator's
// right-hand side or a :has()/:not() argument, Query and Pos refer to that
// nested subselector, not to the whole string passed to ParseSelector.
type SelectorParseError struct {
	Message string
	Query   string
	Pos     int
	Kind    Kind

	// Err is the underlying error, if any, that this error wraps: a regex
	// compile failure, or a tokenqueue ErrUnbalancedDelimiter or
	// ErrQueueMismatch error.
	Err error
}

func (e *SelectorParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse query '%s': %s: %v", e.Query, e.Message, e.Err)
	}
	return fmt.Sprintf("could not parse query '%s': %s", e.Query, e.Message)
}

func (e *SelectorParseError) Unwrap() error { return e.Err }

func newError(kind Kind, query string, pos int, format string, args ...interface{}) *SelectorParseError {
	return &SelectorParseError{
		Message: fmt.Sprintf(format, args...),
		Query:   query,
		Pos:     pos,
		Kind:    kind,
	}
}

// debugf writes a diagnostic line to stderr. Never called on the parse path
// itself -- parsing a selector is synchronous and either succeeds or returns
// a SelectorParseError, so there is nothing non-fatal to report. Kept for
// callers building tooling directly on top of tokenqueue.TokenQueue.
func debugf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
