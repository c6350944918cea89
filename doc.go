// Package cssselect parses a CSS-like selector string into an Evaluator
// tree.
//
// ParseSelector is the entry point; the tokenqueue and evaluator
// subpackages are its building blocks and are usable on their own. This
// package does not evaluate the tree against any document -- producing a
// match runtime over a concrete node/element type is left to a caller
// embedding the evaluator package.
//
//	eval, err := cssselect.ParseSelector("div.main > p:first-child")
//	if err != nil {
//		// err is a *cssselect.SelectorParseError
//	}
package cssselect
