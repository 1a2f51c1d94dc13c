package canceltoken

import (
	"os"
	ossignal "os/signal" // rename so we can talk about cancellation signals unambiguously
)

// Notify arranges for t to be triggered when the process receives any of the
// given OS signals.
//
// The returned stop function unregisters the forwarding and releases its
// goroutine. Stopping does not un-trigger t; nothing does.
func Notify(t *Token, signals ...os.Signal) (stop func()) {
	ch := make(chan os.Signal, 1)
	ossignal.Notify(ch, signals...)

	go func() {
		for range ch {
			t.Trigger()
		}
	}()

	return func() {
		ossignal.Stop(ch)
		close(ch)
	}
}
