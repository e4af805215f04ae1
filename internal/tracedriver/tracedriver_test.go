package tracedriver

import (
	"strings"
	"testing"

	allocator "github.com/heaplab/allocator"
)

const sampleTrace = `
# a handful of allocations, a realloc grow, a realloc to zero, some frees
a 1 32
a 2 64
a 3 16
r 1 96
f 2
a 4 8
r 3 0
f 1
f 4
`

func TestRunReplaysTraceAndChecksEveryStep(t *testing.T) {
	ops, err := Parse(strings.NewReader(sampleTrace))
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 9 {
		t.Fatalf("parsed %d ops, want 9", len(ops))
	}

	al, err := allocator.New(allocator.WithMaxHeap(1 << 20))
	if err != nil {
		t.Fatal(err)
	}
	defer al.Close()

	results, err := Run(al, ops)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(ops) {
		t.Fatalf("got %d results, want %d", len(results), len(ops))
	}
	for i, r := range results {
		if !r.CheckedOK {
			t.Fatalf("step %d (%+v): Check reported a violation", i, r.Op)
		}
	}

	if got := al.Stats().LiveAllocs; got != 0 {
		t.Fatalf("live allocs after draining the trace = %d, want 0", got)
	}
}

func TestParseRejectsMalformedLines(t *testing.T) {
	cases := []string{
		"a 1\n",       // missing size
		"f\n",         // missing id
		"r 1 2 3\n",   // too many fields
		"x 1 2\n",     // unknown op
		"a one two\n", // non-numeric fields
	}
	for _, tc := range cases {
		if _, err := Parse(strings.NewReader(tc)); err == nil {
			t.Fatalf("Parse(%q) succeeded, want error", tc)
		}
	}
}

func TestParseSkipsBlanksAndComments(t *testing.T) {
	ops, err := Parse(strings.NewReader("\n# comment\n\na 1 8\n# trailing\nf 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 {
		t.Fatalf("parsed %d ops, want 2", len(ops))
	}
}
