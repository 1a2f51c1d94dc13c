/*
Package canceltoken provides a cooperative cancellation token: a one-shot flag
that many goroutines can observe, that composes hierarchically, and that can
race arbitrary in-flight operations against cancellation and a deadline.

Broadly, the pieces are:

- The token itself: [Token], [New], [Token.Trigger], [Token.Wait]
- Chaining: [Token.Chain], [Token.TriggeredToken]
- The race engine: [Token.CancellableWait], [Pending], [Future], [Run]
- Host bridges: [Token.TryWait], [Token.Context], [Notify]

# Tokens and chaining

A [Token] is created untriggered and flips exactly once, via [Token.Trigger];
triggering again is a no-op and there is no reset. [Token.Triggered] and
[Token.Err] never block; [Token.Wait] returns a channel to select over, closed
once the token reports triggered.

Chaining is directional observation: after b.Chain(a), triggering a makes b
report triggered, while triggering b leaves a alone. Chains compose
transitively, and [Token.TriggeredToken] tells you which token in the graph
actually fired. Establish chains before handing out Wait channels; a channel
observes the chain set as of its creation.

# Racing operations

[Token.CancellableWait] joins a set of already-started operations (anything
implementing [Pending]) while racing the join against the token firing and
an optional deadline. Operations the race abandons get their Cancel called;
what cancellation means for the operation (and cleaning up its resources) is
the operation's own business. [Future] and [Run] cover the two common ways of
producing a [Pending]: settling by hand, and wrapping a context-aware
function.

Cancellation and timeout surface as [*CancelledError] and [*TimeoutError],
which also match [context.Canceled] and [context.DeadlineExceeded] under
errors.Is.

# Bridging to the host

[Token.TryWait] selects the token against a [context.Context];
[Token.Context] goes the other way, deriving a context that's cancelled by
the token; [Notify] forwards OS signals into a token.
*/
package canceltoken
