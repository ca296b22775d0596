// Package asttest locates AST nodes in test sources marked with
// /*start*/ and /*end*/ comments.
package asttest

import (
	"strings"
	"testing"

	"github.com/lhaig/jswitch/internal/ast"
)

const (
	StartMarker = "/*start*/"
	EndMarker   = "/*end*/"
)

// Strip removes the markers from src and returns the clean source with the
// byte range they enclosed. ok is false when either marker is missing or the
// end marker precedes the start marker.
func Strip(src string) (clean string, start, end int, ok bool) {
	start = strings.Index(src, StartMarker)
	if start < 0 {
		return src, 0, 0, false
	}
	rest := src[:start] + src[start+len(StartMarker):]
	end = strings.Index(rest, EndMarker)
	if end < start {
		return src, 0, 0, false
	}
	return rest[:end] + rest[end+len(EndMarker):], start, end, true
}

// MustStrip is Strip for tests, failing t when the markers are malformed.
func MustStrip(t testing.TB, src string) (string, int, int) {
	t.Helper()
	clean, start, end, ok := Strip(src)
	if !ok {
		t.Fatalf("source needs %s and %s markers in order:\n%s", StartMarker, EndMarker, src)
	}
	return clean, start, end
}

// Find returns the outermost node of type T whose range is exactly
// [start, end), failing t when there is none.
func Find[T ast.Node](t testing.TB, root ast.Node, start, end int) T {
	t.Helper()
	var found T
	var ok bool
	ast.Inspect(root, func(n ast.Node) bool {
		if ok {
			return false
		}
		if v, match := n.(T); match {
			if s, e := n.Range(); s == start && e == end {
				found, ok = v, true
				return false
			}
		}
		return true
	})
	if !ok {
		var zero T
		t.Fatalf("no %T spans [%d, %d)", zero, start, end)
	}
	return found
}
