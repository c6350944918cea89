package cssselect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/domquery/cssselect/evaluator"
	"github.com/domquery/cssselect/tokenqueue"
)

var combinators = []string{",", ">", "+", "~", " "}
var attributeEvaluators = []string{"=", "!=", "^=", "$=", "*=", "~="}

var nthAB = regexp.MustCompile(`(?i)^([+-]?)(\d*)n(\s*[+-]?\s*\d+)?$`)
var nthB = regexp.MustCompile(`^([+-]?)(\d+)$`)

// parseSignedNth parses a sign-and-digits fragment from an An+B formula,
// tolerating the interior whitespace the grammar allows around the sign.
func parseSignedNth(s string) (int, bool) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// QueryParser turns one selector string into an Evaluator tree. A parser is
// single-use: construct one with newQueryParser per top-level or nested
// query and discard it once parse returns.
type QueryParser struct {
	tokenQueue    *tokenqueue.TokenQueue
	cssQuery      string
	evaluatorList []evaluator.Evaluator
}

func newQueryParser(cssQuery string) *QueryParser {
	return &QueryParser{
		cssQuery:   cssQuery,
		tokenQueue: tokenqueue.New(cssQuery),
	}
}

// ParseSelector parses a CSS selector string into an Evaluator tree.
func ParseSelector(cssQuery string) (evaluator.Evaluator, error) {
	p := newQueryParser(cssQuery)
	return p.parse()
}

func (p *QueryParser) add(e evaluator.Evaluator) {
	p.evaluatorList = append(p.evaluatorList, e)
}

func (p *QueryParser) parse() (evaluator.Evaluator, error) {
	p.tokenQueue.ConsumeWhitespace()

	if p.tokenQueue.MatchesAny(combinators...) {
		// starts with a combinator: use the root as the implicit left side
		p.add(&evaluator.Root{})
		if err := p.combinator(p.tokenQueue.Consume()); err != nil {
			return nil, err
		}
	} else if err := p.findElements(); err != nil {
		return nil, err
	}

	for !p.tokenQueue.IsEmpty() {
		seenWhite := p.tokenQueue.ConsumeWhitespace()

		switch {
		case p.tokenQueue.MatchesAny(combinators...):
			if err := p.combinator(p.tokenQueue.Consume()); err != nil {
				return nil, err
			}
		case seenWhite:
			if err := p.combinator(' '); err != nil {
				return nil, err
			}
		default:
			if err := p.findElements(); err != nil {
				return nil, err
			}
		}
	}

	return evaluator.NewAnd(p.evaluatorList...), nil
}

func (p *QueryParser) combinator(combinator rune) error {
	p.tokenQueue.ConsumeWhitespace()
	subQuery, err := p.consumeSubQuery()
	if err != nil {
		return err
	}

	newEval, err := ParseSelector(subQuery)
	if err != nil {
		return err
	}

	var rootEval, currentEval evaluator.Evaluator
	replaceRightMost := false

	if len(p.evaluatorList) == 1 {
		rootEval = p.evaluatorList[0]
		currentEval = rootEval
		// OR (",") has the lowest precedence: graft onto its rightmost arm
		// rather than wrapping the whole thing.
		if or, ok := rootEval.(*evaluator.Or); ok && combinator != ',' {
			currentEval = or.RightMost()
			replaceRightMost = true
		}
	} else {
		rootEval = evaluator.NewAnd(p.evaluatorList...)
		currentEval = rootEval
	}
	p.evaluatorList = p.evaluatorList[:0]

	switch combinator {
	case '>':
		currentEval = evaluator.NewAnd(newEval, &evaluator.ImmediateParent{In: currentEval})
	case ' ':
		currentEval = evaluator.NewAnd(newEval, &evaluator.Parent{In: currentEval})
	case '+':
		currentEval = evaluator.NewAnd(newEval, &evaluator.ImmediatePreviousSibling{In: currentEval})
	case '~':
		currentEval = evaluator.NewAnd(newEval, &evaluator.PreviousSibling{In: currentEval})
	case ',':
		var or *evaluator.Or
		if existing, ok := currentEval.(*evaluator.Or); ok {
			or = existing
			or.Add(newEval)
		} else {
			or = evaluator.NewOr(currentEval, newEval)
		}
		currentEval = or
	default:
		return newError(UnknownCombinator, p.cssQuery, p.tokenQueue.Pos(), "unknown combinator: %q", combinator)
	}

	if replaceRightMost {
		rootEval.(*evaluator.Or).ReplaceRightMost(currentEval)
	} else {
		rootEval = currentEval
	}
	p.add(rootEval)
	return nil
}

// consumeSubQuery consumes up to (but not including) the next top-level
// combinator, treating (...) and [...] spans as opaque so a nested
// combinator inside a pseudo-class argument or attribute selector doesn't
// end the subquery early.
func (p *QueryParser) consumeSubQuery() (string, error) {
	var sb strings.Builder
	for !p.tokenQueue.IsEmpty() {
		switch {
		case p.tokenQueue.Matches("("):
			balanced, err := p.tokenQueue.ChompBalanced('(', ')')
			if err != nil {
				return "", wrapUnbalanced(p, err)
			}
			sb.WriteString("(")
			sb.WriteString(balanced)
			sb.WriteString(")")
		case p.tokenQueue.Matches("["):
			balanced, err := p.tokenQueue.ChompBalanced('[', ']')
			if err != nil {
				return "", wrapUnbalanced(p, err)
			}
			sb.WriteString("[")
			sb.WriteString(balanced)
			sb.WriteString("]")
		case p.tokenQueue.MatchesAny(combinators...):
			return sb.String(), nil
		default:
			sb.WriteRune(p.tokenQueue.Consume())
		}
	}
	return sb.String(), nil
}

func (p *QueryParser) findElements() error {
	tq := p.tokenQueue
	switch {
	case tq.MatchChomp("#"):
		return p.byId()
	case tq.MatchChomp("."):
		return p.byClass()
	case tq.MatchesWord() || tq.Matches("*|"):
		return p.byTag()
	case tq.Matches("["):
		return p.byAttribute()
	case tq.MatchChomp("*"):
		p.add(&evaluator.AllElements{})
		return nil
	case tq.MatchChomp(":lt("):
		return p.indexLessThan()
	case tq.MatchChomp(":gt("):
		return p.indexGreaterThan()
	case tq.MatchChomp(":eq("):
		return p.indexEquals()
	case tq.Matches(":has("):
		return p.has()
	case tq.Matches(":contains("):
		return p.contains(false)
	case tq.Matches(":containsOwn("):
		return p.contains(true)
	case tq.Matches(":containsData("):
		return p.containsData()
	case tq.Matches(":matches("):
		return p.matches(false)
	case tq.Matches(":matchesOwn("):
		return p.matches(true)
	case tq.Matches(":not("):
		return p.not()
	case tq.MatchChomp(":nth-child("):
		return p.cssNthChild(false, false)
	case tq.MatchChomp(":nth-last-child("):
		return p.cssNthChild(true, false)
	case tq.MatchChomp(":nth-of-type("):
		return p.cssNthChild(false, true)
	case tq.MatchChomp(":nth-last-of-type("):
		return p.cssNthChild(true, true)
	case tq.MatchChomp(":first-child"):
		p.add(&evaluator.IsFirstChild{})
		return nil
	case tq.MatchChomp(":last-child"):
		p.add(&evaluator.IsLastChild{})
		return nil
	case tq.MatchChomp(":first-of-type"):
		p.add(&evaluator.IsFirstOfType{})
		return nil
	case tq.MatchChomp(":last-of-type"):
		p.add(&evaluator.IsLastOfType{})
		return nil
	case tq.MatchChomp(":only-child"):
		p.add(&evaluator.IsOnlyChild{})
		return nil
	case tq.MatchChomp(":only-of-type"):
		p.add(&evaluator.IsOnlyOfType{})
		return nil
	case tq.MatchChomp(":empty"):
		p.add(&evaluator.IsEmpty{})
		return nil
	case tq.MatchChomp(":root"):
		p.add(&evaluator.IsRoot{})
		return nil
	case tq.MatchChomp(":matchText"):
		p.add(&evaluator.MatchText{})
		return nil
	default:
		return newError(UnexpectedToken, p.cssQuery, tq.Pos(), "unexpected token at '%s'", tq.String())
	}
}

func (p *QueryParser) byId() error {
	id := p.tokenQueue.ConsumeCSSIdentifier()
	if id == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), "id selector must not be empty")
	}
	p.add(&evaluator.Id{ID: id})
	return nil
}

func (p *QueryParser) byClass() error {
	className := p.tokenQueue.ConsumeCSSIdentifier()
	if className == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), "class selector must not be empty")
	}
	p.add(&evaluator.Class{Name: strings.TrimSpace(className)})
	return nil
}

func (p *QueryParser) byTag() error {
	tagName := p.tokenQueue.ConsumeElementSelector()
	if tagName == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), "tag selector must not be empty")
	}

	if strings.HasPrefix(tagName, "*|") {
		// wildcard namespace: match the bare tag name or any "ns:tag"
		norm := Normalize(tagName)
		p.add(evaluator.NewOr(
			&evaluator.Tag{Name: norm},
			&evaluator.TagEndsWith{Suffix: Normalize(strings.ReplaceAll(tagName, "*|", ":"))},
		))
		return nil
	}

	// namespaces: element "abc:def" is selected as "abc|def", so flip back
	if strings.Contains(tagName, "|") {
		tagName = strings.ReplaceAll(tagName, "|", ":")
	}
	p.add(&evaluator.Tag{Name: strings.TrimSpace(tagName)})
	return nil
}

func (p *QueryParser) byAttribute() error {
	balanced, err := p.tokenQueue.ChompBalanced('[', ']')
	if err != nil {
		return wrapUnbalanced(p, err)
	}
	cq := tokenqueue.New(balanced)
	key := cq.ConsumeToAny(attributeEvaluators...)
	if key == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), "attribute key must not be empty")
	}
	cq.ConsumeWhitespace()

	if cq.IsEmpty() {
		if strings.HasPrefix(key, "^") {
			p.add(&evaluator.AttributeStarting{Prefix: key[1:]})
		} else {
			p.add(&evaluator.Attribute{Key: key})
		}
		return nil
	}

	switch {
	case cq.MatchChomp("="):
		p.add(&evaluator.AttributeWithValue{Key: key, Value: cq.Remainder()})
	case cq.MatchChomp("!="):
		p.add(&evaluator.AttributeWithValueNot{Key: key, Value: cq.Remainder()})
	case cq.MatchChomp("^="):
		p.add(&evaluator.AttributeWithValueStarting{Key: key, Value: cq.Remainder()})
	case cq.MatchChomp("$="):
		p.add(&evaluator.AttributeWithValueEnding{Key: key, Value: cq.Remainder()})
	case cq.MatchChomp("*="):
		p.add(&evaluator.AttributeWithValueContaining{Key: key, Value: cq.Remainder()})
	case cq.MatchChomp("~="):
		pattern, err := regexp2.Compile(cq.Remainder(), regexp2.None)
		if err != nil {
			return wrapRegex(p, err)
		}
		p.add(&evaluator.AttributeWithValueMatching{Key: key, Pattern: pattern})
	default:
		return newError(UnexpectedToken, p.cssQuery, p.tokenQueue.Pos(), "unexpected token at '%s' in attribute selector", cq.String())
	}
	return nil
}

func (p *QueryParser) indexLessThan() error {
	n, err := p.consumeIndex()
	if err != nil {
		return err
	}
	p.add(&evaluator.IndexLessThan{N: n})
	return nil
}

func (p *QueryParser) indexGreaterThan() error {
	n, err := p.consumeIndex()
	if err != nil {
		return err
	}
	p.add(&evaluator.IndexGreaterThan{N: n})
	return nil
}

func (p *QueryParser) indexEquals() error {
	n, err := p.consumeIndex()
	if err != nil {
		return err
	}
	p.add(&evaluator.IndexEquals{N: n})
	return nil
}

// consumeIndex consumes up to and including the closing ")" of an :lt(),
// :gt(), or :eq() pseudo-class and parses the digits in between.
func (p *QueryParser) consumeIndex() (int, error) {
	indexS := strings.TrimSpace(p.tokenQueue.ChompTo(")"))
	if !isNumeric(indexS) {
		return 0, newError(BadIndex, p.cssQuery, p.tokenQueue.Pos(), "index must be numeric: %q", indexS)
	}
	n, err := strconv.Atoi(indexS)
	if err != nil {
		return 0, newError(BadIndex, p.cssQuery, p.tokenQueue.Pos(), "index must be numeric: %q", indexS)
	}
	return n, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// cssNthChild parses the An+B formula inside :nth-child() and its siblings.
func (p *QueryParser) cssNthChild(backwards, ofType bool) error {
	argS := Normalize(p.tokenQueue.ChompTo(")"))

	var a, b int
	switch {
	case argS == "odd":
		a, b = 2, 1
	case argS == "even":
		a, b = 2, 0
	default:
		if m := nthAB.FindStringSubmatch(argS); m != nil {
			if m[2] != "" {
				n, ok := parseSignedNth(m[1] + m[2])
				if !ok {
					return newError(BadNthFormula, p.cssQuery, p.tokenQueue.Pos(), "could not parse nth-index %q: unexpected format", argS)
				}
				a = n
			} else {
				a = 1
			}
			if m[3] != "" {
				n, ok := parseSignedNth(m[3])
				if !ok {
					return newError(BadNthFormula, p.cssQuery, p.tokenQueue.Pos(), "could not parse nth-index %q: unexpected format", argS)
				}
				b = n
			} else {
				b = 0
			}
		} else if nthB.MatchString(argS) {
			a = 0
			n, ok := parseSignedNth(argS)
			if !ok {
				return newError(BadNthFormula, p.cssQuery, p.tokenQueue.Pos(), "could not parse nth-index %q: unexpected format", argS)
			}
			b = n
		} else {
			return newError(BadNthFormula, p.cssQuery, p.tokenQueue.Pos(), "could not parse nth-index %q: unexpected format", argS)
		}
	}

	switch {
	case ofType && backwards:
		p.add(&evaluator.IsNthLastOfType{A: a, B: b})
	case ofType:
		p.add(&evaluator.IsNthOfType{A: a, B: b})
	case backwards:
		p.add(&evaluator.IsNthLastChild{A: a, B: b})
	default:
		p.add(&evaluator.IsNthChild{A: a, B: b})
	}
	return nil
}

func (p *QueryParser) has() error {
	if err := p.tokenQueue.ConsumeLiteral(":has"); err != nil {
		return wrapMismatch(p, err)
	}
	subQuery, err := p.tokenQueue.ChompBalanced('(', ')')
	if err != nil {
		return wrapUnbalanced(p, err)
	}
	if subQuery == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), ":has(el) subselect must not be empty")
	}
	inner, err := ParseSelector(subQuery)
	if err != nil {
		return err
	}
	p.add(&evaluator.Has{In: inner})
	return nil
}

func (p *QueryParser) contains(own bool) error {
	literal := ":contains"
	if own {
		literal = ":containsOwn"
	}
	if err := p.tokenQueue.ConsumeLiteral(literal); err != nil {
		return wrapMismatch(p, err)
	}
	balanced, err := p.tokenQueue.ChompBalanced('(', ')')
	if err != nil {
		return wrapUnbalanced(p, err)
	}
	searchText := tokenqueue.Unescape(balanced)
	if searchText == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), ":contains(text) query must not be empty")
	}
	if own {
		p.add(&evaluator.ContainsOwnText{Text: searchText})
	} else {
		p.add(&evaluator.ContainsText{Text: searchText})
	}
	return nil
}

func (p *QueryParser) containsData() error {
	if err := p.tokenQueue.ConsumeLiteral(":containsData"); err != nil {
		return wrapMismatch(p, err)
	}
	balanced, err := p.tokenQueue.ChompBalanced('(', ')')
	if err != nil {
		return wrapUnbalanced(p, err)
	}
	searchText := tokenqueue.Unescape(balanced)
	if searchText == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), ":containsData(text) query must not be empty")
	}
	p.add(&evaluator.ContainsData{Text: searchText})
	return nil
}

func (p *QueryParser) matches(own bool) error {
	literal := ":matches"
	if own {
		literal = ":matchesOwn"
	}
	if err := p.tokenQueue.ConsumeLiteral(literal); err != nil {
		return wrapMismatch(p, err)
	}
	// don't unescape: regex metacharacters may themselves be escaped
	regex, err := p.tokenQueue.ChompBalanced('(', ')')
	if err != nil {
		return wrapUnbalanced(p, err)
	}
	if regex == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), ":matches(regex) query must not be empty")
	}
	pattern, err := regexp2.Compile(regex, regexp2.None)
	if err != nil {
		return wrapRegex(p, err)
	}
	if own {
		p.add(&evaluator.MatchesOwn{Pattern: pattern})
	} else {
		p.add(&evaluator.Matches{Pattern: pattern})
	}
	return nil
}

func (p *QueryParser) not() error {
	if err := p.tokenQueue.ConsumeLiteral(":not"); err != nil {
		return wrapMismatch(p, err)
	}
	subQuery, err := p.tokenQueue.ChompBalanced('(', ')')
	if err != nil {
		return wrapUnbalanced(p, err)
	}
	if subQuery == "" {
		return newError(EmptyRequiredToken, p.cssQuery, p.tokenQueue.Pos(), ":not(selector) subselect must not be empty")
	}
	inner, err := ParseSelector(subQuery)
	if err != nil {
		return err
	}
	p.add(&evaluator.Not{In: inner})
	return nil
}

func wrapUnbalanced(p *QueryParser, cause error) error {
	return &SelectorParseError{
		Message: cause.Error(),
		Query:   p.cssQuery,
		Pos:     p.tokenQueue.Pos(),
		Kind:    UnbalancedDelimiter,
		Err:     cause,
	}
}

func wrapMismatch(p *QueryParser, cause error) error {
	return &SelectorParseError{
		Message: cause.Error(),
		Query:   p.cssQuery,
		Pos:     p.tokenQueue.Pos(),
		Kind:    QueueMismatch,
		Err:     cause,
	}
}

func wrapRegex(p *QueryParser, cause error) error {
	return &SelectorParseError{
		Message: "could not compile regex",
		Query:   p.cssQuery,
		Pos:     p.tokenQueue.Pos(),
		Kind:    RegexCompile,
		Err:     cause,
	}
}
