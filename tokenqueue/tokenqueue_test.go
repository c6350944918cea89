package tokenqueue_test

import (
	"errors"
	"testing"

	"github.com/domquery/cssselect/tokenqueue"
)

// Ensure basic lookahead and matching primitives behave as documented.
func TestTokenQueue_Matches(t *testing.T) {
	var tests = []struct {
		s   string
		seq string
		cs  bool
	}{
		{s: `DIV.main`, seq: `div`, cs: true},
		{s: `DIV.main`, seq: `DIV`, cs: true},
		{s: `div.main`, seq: `DIV`, cs: false},
		{s: ``, seq: `x`, cs: false},
	}
	for i, tt := range tests {
		q := tokenqueue.New(tt.s)
		if got := q.Matches(tt.seq); got != tt.cs {
			t.Errorf("%d. Matches(%q, %q) = %v, want %v", i, tt.s, tt.seq, got, tt.cs)
		}
	}
}

func TestTokenQueue_MatchesCS(t *testing.T) {
	q := tokenqueue.New("DIV")
	if q.MatchesCS("div") {
		t.Fatal("expected case-sensitive mismatch")
	}
	if !q.MatchesCS("DIV") {
		t.Fatal("expected case-sensitive match")
	}
}

func TestTokenQueue_PeekAndAdvance(t *testing.T) {
	q := tokenqueue.New("ab")
	if q.Peek() != 'a' {
		t.Fatalf("peek = %q, want a", q.Peek())
	}
	q.Advance()
	if q.Peek() != 'b' {
		t.Fatalf("peek = %q, want b", q.Peek())
	}
	q.Advance()
	if !q.IsEmpty() {
		t.Fatal("expected empty queue")
	}
	if q.Peek() != 0 {
		t.Fatalf("peek at EOF = %q, want NUL", q.Peek())
	}
	q.Advance() // idempotent at EOF
}

func TestTokenQueue_ConsumeLiteral(t *testing.T) {
	q := tokenqueue.New("foobar")
	if err := q.ConsumeLiteral("foo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.ConsumeLiteral("zzz"); !errors.Is(err, tokenqueue.ErrQueueMismatch) {
		t.Fatalf("err = %v, want ErrQueueMismatch", err)
	}
}

func TestTokenQueue_ConsumeTo(t *testing.T) {
	var tests = []struct {
		s, seq, want, rest string
	}{
		{s: `one (two) three`, seq: `(`, want: `one `, rest: `(two) three`},
		{s: `no match here`, seq: `zzz`, want: `no match here`, rest: ``},
	}
	for i, tt := range tests {
		q := tokenqueue.New(tt.s)
		got := q.ConsumeTo(tt.seq)
		if got != tt.want {
			t.Errorf("%d. ConsumeTo(%q) = %q, want %q", i, tt.seq, got, tt.want)
		}
		if q.String() != tt.rest {
			t.Errorf("%d. remainder = %q, want %q", i, q.String(), tt.rest)
		}
	}
}

func TestTokenQueue_ConsumeToIgnoreCase(t *testing.T) {
	q := tokenqueue.New("fooBARbaz")
	got := q.ConsumeToIgnoreCase("bar")
	if got != "foo" {
		t.Fatalf("got %q, want foo", got)
	}
	if q.String() != "BARbaz" {
		t.Fatalf("remainder = %q, want BARbaz", q.String())
	}
}

func TestTokenQueue_ChompBalanced(t *testing.T) {
	var tests = []struct {
		s, want, rest string
		err           bool
	}{
		{s: `(one (two) three) four`, want: `one (two) three`, rest: ` four`},
		{s: `(one "two) three") four`, want: `one "two) three"`, rest: ` four`},
		{s: `(one \) two) three`, want: `one \) two`, rest: ` three`},
		{s: `(unterminated`, err: true},
	}
	for i, tt := range tests {
		q := tokenqueue.New(tt.s)
		got, err := q.ChompBalanced('(', ')')
		if tt.err {
			if !errors.Is(err, tokenqueue.ErrUnbalancedDelimiter) {
				t.Errorf("%d. err = %v, want ErrUnbalancedDelimiter", i, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d. unexpected error: %v", i, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%d. ChompBalanced = %q, want %q", i, got, tt.want)
		}
		if q.String() != tt.rest {
			t.Errorf("%d. remainder = %q, want %q", i, q.String(), tt.rest)
		}
	}
}

func TestUnescape(t *testing.T) {
	var tests = []struct{ s, want string }{
		{s: `foo`, want: `foo`},
		{s: `foo\)bar`, want: `foo)bar`},
		{s: `foo\\bar`, want: `foo\bar`},
		{s: `\`, want: ``},
	}
	for i, tt := range tests {
		if got := tokenqueue.Unescape(tt.s); got != tt.want {
			t.Errorf("%d. Unescape(%q) = %q, want %q", i, tt.s, got, tt.want)
		}
	}
}

func TestUnescape_Idempotent(t *testing.T) {
	s := `foo\\bar\)baz`
	once := tokenqueue.Unescape(s)
	twice := tokenqueue.Unescape(once)
	if once != twice {
		t.Fatalf("Unescape not idempotent: %q != %q", once, twice)
	}
}

func TestTokenQueue_AddFirst(t *testing.T) {
	q := tokenqueue.New("bar")
	q.Advance()
	q.AddFirst("foo")
	if q.String() != "fooar" {
		t.Fatalf("remainder = %q, want fooar", q.String())
	}
}
