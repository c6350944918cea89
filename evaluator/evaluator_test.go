package evaluator_test

import (
	"testing"

	"github.com/domquery/cssselect/evaluator"
)

// Every constructed node must satisfy Evaluator, and leaf/structural/
// combining nodes must satisfy their respective sub-interfaces.
func TestLeafConformance(t *testing.T) {
	var leaves = []evaluator.Leaf{
		&evaluator.Tag{Name: "div"},
		&evaluator.TagEndsWith{Suffix: "box"},
		&evaluator.Id{ID: "main"},
		&evaluator.Class{Name: "warn"},
		&evaluator.AllElements{},
		&evaluator.Attribute{Key: "href"},
		&evaluator.AttributeStarting{Prefix: "data-"},
		&evaluator.AttributeWithValue{Key: "href", Value: "x"},
		&evaluator.AttributeWithValueNot{Key: "href", Value: "x"},
		&evaluator.AttributeWithValueStarting{Key: "href", Value: "x"},
		&evaluator.AttributeWithValueEnding{Key: "href", Value: "x"},
		&evaluator.AttributeWithValueContaining{Key: "href", Value: "x"},
		&evaluator.ContainsText{Text: "hi"},
		&evaluator.ContainsOwnText{Text: "hi"},
		&evaluator.ContainsData{Text: "hi"},
		&evaluator.MatchText{},
		&evaluator.IndexLessThan{N: 2},
		&evaluator.IndexGreaterThan{N: 2},
		&evaluator.IndexEquals{N: 2},
		&evaluator.IsNthChild{A: 2, B: 1},
		&evaluator.IsNthLastChild{A: 2, B: 1},
		&evaluator.IsNthOfType{A: 2, B: 1},
		&evaluator.IsNthLastOfType{A: 2, B: 1},
		&evaluator.IsFirstChild{},
		&evaluator.IsLastChild{},
		&evaluator.IsFirstOfType{},
		&evaluator.IsLastOfType{},
		&evaluator.IsOnlyChild{},
		&evaluator.IsOnlyOfType{},
		&evaluator.IsEmpty{},
		&evaluator.IsRoot{},
		&evaluator.Root{},
	}
	for _, l := range leaves {
		var _ evaluator.Evaluator = l
	}
}

func TestStructuralConformance(t *testing.T) {
	inner := &evaluator.Tag{Name: "div"}
	var structs = []evaluator.Structural{
		&evaluator.Parent{In: inner},
		&evaluator.ImmediateParent{In: inner},
		&evaluator.PreviousSibling{In: inner},
		&evaluator.ImmediatePreviousSibling{In: inner},
		&evaluator.Has{In: inner},
		&evaluator.Not{In: inner},
	}
	for _, s := range structs {
		if s.Inner() != inner {
			t.Errorf("Inner() = %v, want %v", s.Inner(), inner)
		}
	}
}

func TestNewAnd_SingleChildUnwraps(t *testing.T) {
	inner := &evaluator.Tag{Name: "div"}
	got := evaluator.NewAnd(inner)
	if got != inner {
		t.Fatalf("NewAnd(single) = %v, want the unwrapped child", got)
	}
}

func TestNewAnd_MultipleChildren(t *testing.T) {
	a := &evaluator.Tag{Name: "div"}
	b := &evaluator.Class{Name: "warn"}
	got := evaluator.NewAnd(a, b)
	and, ok := got.(*evaluator.And)
	if !ok {
		t.Fatalf("NewAnd(a, b) = %T, want *And", got)
	}
	if len(and.Children()) != 2 {
		t.Fatalf("Children() len = %d, want 2", len(and.Children()))
	}
}

func TestOr_RightMostReplace(t *testing.T) {
	a := &evaluator.Tag{Name: "div"}
	b := &evaluator.Tag{Name: "p"}
	or := evaluator.NewOr(a, b)
	if or.RightMost() != b {
		t.Fatalf("RightMost() = %v, want %v", or.RightMost(), b)
	}
	c := &evaluator.Class{Name: "warn"}
	or.ReplaceRightMost(c)
	if or.RightMost() != c {
		t.Fatalf("RightMost() after replace = %v, want %v", or.RightMost(), c)
	}
	if or.Children()[0] != a {
		t.Fatalf("Children()[0] = %v, want %v (unaffected by replace)", or.Children()[0], a)
	}
}

func TestOr_Add(t *testing.T) {
	a := &evaluator.Tag{Name: "div"}
	b := &evaluator.Tag{Name: "p"}
	or := evaluator.NewOr(a)
	or.Add(b)
	if len(or.Children()) != 2 || or.Children()[1] != b {
		t.Fatalf("Children() = %v, want [%v %v]", or.Children(), a, b)
	}
}
