package canceltoken

import (
	"sync"

	"golang.org/x/exp/slices"
)

// Token is a one-shot cancellation flag that concurrent operations can poll,
// select over, or race work against.
//
// A Token starts untriggered. [Token.Trigger] flips it exactly once; there is
// no reset. Tokens can be chained with [Token.Chain], so that a token reports
// triggered as soon as any token it (transitively) observes does, without
// the observed token ever learning about its observers.
//
// The zero Token is not usable; construct with [New].
type Token struct {
	name string

	mu      sync.Mutex
	done    chan struct{} // closed by Trigger
	site    triggerSite   // where Trigger was called; valid once done is closed
	chained []*Token
	waitCh  chan struct{} // lazily built by Wait; nil until first use
}

// New creates an untriggered Token with no chains.
//
// The name is diagnostic only: it shows up in [CancelledError] and in
// [Token.String], and carries no identity semantics.
func New(name string) *Token {
	return &Token{
		name: name,
		done: make(chan struct{}),
	}
}

// Name returns the name the Token was constructed with.
func (t *Token) Name() string {
	return t.name
}

// String implements [fmt.Stringer], returning the Token's name.
func (t *Token) String() string {
	return t.name
}

// Chain registers other as a dependency of t: once other (or anything other
// observes) triggers, t reports triggered as well. The relation is strictly
// one-way; triggering t has no effect on other.
//
// Chain returns t so that construction can be fluent:
//
//	tok := canceltoken.New("conn").Chain(shutdown).Chain(timeoutTok)
//
// Chaining the same pair twice is a no-op. Chain panics if the new edge would
// make the chain graph cyclic.
//
// Chains must be established before handing out [Token.Wait] channels: a
// channel obtained from Wait observes the chain set as it was when the channel
// was created. Calls to [Token.Triggered], [Token.Err], and later Wait calls
// always see the current chain set.
func (t *Token) Chain(other *Token) *Token {
	if slices.Contains(other.reachable(), t) {
		panic("canceltoken: Chain would create a cycle")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !slices.Contains(t.chained, other) {
		t.chained = append(t.chained, other)
	}
	return t
}

// Trigger flips the Token to triggered. Every waiter suspended on this Token
// is woken before Trigger returns. Triggering an already-triggered Token does
// nothing.
//
// Trigger never blocks and is safe to call from any goroutine, including
// concurrently with itself.
func (t *Token) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isClosed(t.done) {
		return
	}

	t.site = callerSite(1)
	close(t.done)
}

// Triggered reports whether t, or any token reachable through its chains, has
// been triggered. It never blocks.
func (t *Token) Triggered() bool {
	return t.TriggeredToken() != nil
}

// TriggeredToken returns the token whose own [Token.Trigger] call made t
// report triggered: t itself, or a (transitively) chained token. It returns
// nil while t is untriggered.
//
// When several reachable tokens have triggered, the first in depth-first
// chain order is returned.
func (t *Token) TriggeredToken() *Token {
	for _, tok := range t.reachable() {
		if isClosed(tok.done) {
			return tok
		}
	}
	return nil
}

// Err returns nil while t is untriggered, and a [*CancelledError] naming t
// and the token that actually fired once it is. It never blocks.
//
// Use it for early-exit checks at the top of a unit of work:
//
//	if err := tok.Err(); err != nil {
//		return err
//	}
func (t *Token) Err() error {
	fired := t.TriggeredToken()
	if fired == nil {
		return nil
	}
	return &CancelledError{Token: t.name, Fired: fired.name, Site: fired.TriggerSite()}
}

// TriggerSite returns where [Token.Trigger] was called on this token,
// formatted as "function (file:line)", or "" while untriggered. Chained
// triggers don't count; this is the site for t's own flag.
func (t *Token) TriggerSite() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !isClosed(t.done) {
		return ""
	}
	return t.site.String()
}

// reachable returns every token observable from t (t included), in
// depth-first order. The visited set makes traversal terminate even if a
// cycle is assembled in violation of Chain's contract.
func (t *Token) reachable() []*Token {
	visited := make(map[*Token]struct{})
	var order []*Token

	var visit func(tok *Token)
	visit = func(tok *Token) {
		if _, ok := visited[tok]; ok {
			return
		}
		visited[tok] = struct{}{}
		order = append(order, tok)

		for _, c := range tok.chainedSnapshot() {
			visit(c)
		}
	}
	visit(t)

	return order
}

func (t *Token) chainedSnapshot() []*Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.chained)
}
