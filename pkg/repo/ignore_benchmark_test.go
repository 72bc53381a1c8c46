package repo

import (
	"fmt"
	"testing"
)

var benchmarkIgnoreSink bool

func BenchmarkIgnoreCheckerLargeLiteralSet(b *testing.B) {
	const literalPatternCount = 10000

	lines := make([]string, 0, literalPatternCount+4)
	for i := 0; i < literalPatternCount; i++ {
		lines = append(lines, fmt.Sprintf("artifact-%05d.bin", i))
	}
	lines = append(lines,
		"*.log",
		"build/",
		"!build/keep.log",
		"**/*.gen.go",
	)

	ic := NewIgnoreCheckerFromPatterns(lines...)
	paths := []struct {
		rel   string
		isDir bool
	}{
		{"artifact-09999.bin", false},
		{"src/artifact-09999.bin", false},
		{"build", true},
		{"build/keep.log", false},
		{"cmd/file.gen.go", false},
		{"src/other.txt", false},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := paths[i%len(paths)]
		benchmarkIgnoreSink = ic.IsIgnored(p.rel, p.isDir)
	}
}
