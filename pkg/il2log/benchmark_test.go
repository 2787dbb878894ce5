package il2log_test

import (
	"context"
	"strings"
	"testing"

	"github.com/il2log/il2log-go/pkg/il2log"
)

// BenchmarkDispatch_Early benchmarks a line claimed by one of the first rules.
func BenchmarkDispatch_Early(b *testing.B) {
	reg := il2log.NewDefaultRegistry()
	line := "[8:33:05 PM] Mission BEGIN"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Dispatch(line)
	}
}

// BenchmarkDispatch_Late benchmarks a line claimed near the end of the
// priority order.
func BenchmarkDispatch_Late(b *testing.B) {
	reg := il2log.NewDefaultRegistry()
	line := "[8:33:05 PM] r01000 shot down by r02011 and r03022 at 100.0 200.99"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Dispatch(line)
	}
}

// BenchmarkDispatch_NoMatch benchmarks a line every rule rejects.
func BenchmarkDispatch_NoMatch(b *testing.B) {
	reg := il2log.NewDefaultRegistry()
	line := "[8:33:05 PM] Server shutdown"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Dispatch(line)
	}
}

// BenchmarkDispatch_Noise benchmarks the pre-filter path.
func BenchmarkDispatch_Noise(b *testing.B) {
	reg := il2log.NewDefaultRegistry()
	line := "[8:33:05 PM] 3do/Tree/Line_W/live.sim destroyed by at 100.0 200.99"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Dispatch(line)
	}
}

// BenchmarkParseReader benchmarks streaming a small mixed log.
func BenchmarkParseReader(b *testing.B) {
	input := strings.Repeat(sampleLog, 100)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range il2log.ParseReader(ctx, strings.NewReader(input)) {
		}
	}
}

// BenchmarkNewDefaultRegistry benchmarks building a registry from the
// cached default rules.
func BenchmarkNewDefaultRegistry(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = il2log.NewDefaultRegistry()
	}
}
