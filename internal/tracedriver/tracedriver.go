// Package tracedriver replays line-oriented allocator traces against a
// *memory.Allocator, checking invariants after every operation. It is
// the in-repo analogue of the course test harness spec.md places out of
// scope (§1, §6): kept internal because it is test support, not a
// shipped CLI surface.
package tracedriver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unsafe"

	allocator "github.com/heaplab/allocator"
)

// Op is one parsed trace line.
//
//	a <id> <size>   — allocate size bytes, remember the result under id
//	f <id>          — free the block remembered under id
//	r <id> <size>   — reallocate the block remembered under id to size
type Op struct {
	Kind string // "a", "f", or "r"
	ID   int
	Size int
}

// Parse reads a trace, one operation per non-blank, non-'#' line.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		op := Op{Kind: fields[0]}
		switch op.Kind {
		case "a", "r":
			if len(fields) != 3 {
				return nil, fmt.Errorf("tracedriver: malformed %q line: %q", op.Kind, line)
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, err
			}
			size, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, err
			}
			op.ID, op.Size = id, size
		case "f":
			if len(fields) != 2 {
				return nil, fmt.Errorf("tracedriver: malformed f line: %q", line)
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, err
			}
			op.ID = id
		default:
			return nil, fmt.Errorf("tracedriver: unknown op %q", op.Kind)
		}
		ops = append(ops, op)
	}
	return ops, sc.Err()
}

// Result records what Run observed for a single op, for callers that
// want to assert on individual steps rather than just the final state.
type Result struct {
	Op        Op
	CheckedOK bool
}

// Run replays ops against al, calling al.Check(false) after every
// operation and recording its verdict. It stops and returns early on
// the first error al reports, out-of-memory errors included.
func Run(al *allocator.Allocator, ops []Op) ([]Result, error) {
	live := map[int]unsafe.Pointer{}
	results := make([]Result, 0, len(ops))

	for _, op := range ops {
		switch op.Kind {
		case "a":
			p, err := al.Alloc(op.Size)
			if err != nil {
				return results, fmt.Errorf("tracedriver: alloc %d: %w", op.ID, err)
			}
			live[op.ID] = p
		case "f":
			al.Free(live[op.ID])
			delete(live, op.ID)
		case "r":
			p, err := al.Realloc(live[op.ID], op.Size)
			if err != nil {
				return results, fmt.Errorf("tracedriver: realloc %d: %w", op.ID, err)
			}
			if op.Size == 0 {
				delete(live, op.ID)
			} else {
				live[op.ID] = p
			}
		}
		results = append(results, Result{Op: op, CheckedOK: al.Check(false)})
	}
	return results, nil
}
