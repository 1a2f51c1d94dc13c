package canceltoken_test

import (
	"testing"

	canceltoken "github.com/ethereum/go-canceltoken"
)

// Sink variables to prevent the compiler from eliminating benchmark loops
var (
	sinkBool bool
	sinkErr  error
)

func BenchmarkTriggeredFlat(b *testing.B) {
	tok := canceltoken.New("bench")
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = tok.Triggered()
	}
	sinkBool = result
}

func BenchmarkTriggeredChained(b *testing.B) {
	root := canceltoken.New("root")
	mid := canceltoken.New("mid").Chain(root)
	tok := canceltoken.New("bench").Chain(mid)
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = tok.Triggered()
	}
	sinkBool = result
}

func BenchmarkErrUntriggered(b *testing.B) {
	tok := canceltoken.New("bench")
	b.ReportAllocs()
	b.ResetTimer()

	var err error
	for i := 0; i < b.N; i++ {
		err = tok.Err()
	}
	sinkErr = err
}

func BenchmarkTriggerIdempotent(b *testing.B) {
	tok := canceltoken.New("bench")
	tok.Trigger()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tok.Trigger()
	}
}
