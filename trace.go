package memory

import (
	"fmt"
	"os"
)

// trace gates the one-line diagnostic fmt.Fprintf calls in Alloc, Free
// and Realloc (Calloc is traced through Alloc). Off by default; flip
// with SetTrace. Mirrors the
// trace-guarded defer blocks throughout cznic-memory's Malloc/Free/
// Realloc/Calloc (that package references a package-level trace var
// which isn't itself among the retrieved files; this recreates it as an
// explicit toggle rather than a build-tag constant).
var trace = false

// SetTrace enables or disables the package's debug tracing output,
// written to os.Stderr.
func SetTrace(on bool) { trace = on }

func tracef(format string, args ...interface{}) {
	if !trace {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
