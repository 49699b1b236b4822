package diff_test

import (
	"testing"

	"github.com/mfinn/llmreview/internal/diff"
)

func mustParse(t *testing.T, patch string) []diff.File {
	t.Helper()
	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return files
}

func TestIndex_FindPosition(t *testing.T) {
	ix := diff.NewIndex(mustParse(t, simpleDiff))

	// Added line 11 sits at position 2.
	pos, ambiguous := ix.FindPosition("pkg/example.go", 11)
	if pos == nil || *pos != 2 {
		t.Fatalf("expected position 2, got %v", pos)
	}
	if ambiguous {
		t.Error("unexpected ambiguity")
	}

	// Context line 13 is addressable too.
	pos, _ = ix.FindPosition("pkg/example.go", 13)
	if pos == nil || *pos != 4 {
		t.Fatalf("expected position 4, got %v", pos)
	}
}

func TestIndex_FindPosition_Misses(t *testing.T) {
	ix := diff.NewIndex(mustParse(t, simpleDiff))

	cases := []struct {
		name string
		path string
		line int
	}{
		{"line outside hunk window", "pkg/example.go", 99},
		{"zero line", "pkg/example.go", 0},
		{"negative line", "pkg/example.go", -3},
		{"unknown file", "pkg/other.go", 11},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, _ := ix.FindPosition(tc.path, tc.line)
			if pos != nil {
				t.Errorf("expected nil position, got %d", *pos)
			}
		})
	}
}

func TestIndex_FindPosition_RemovedLineNeverMatches(t *testing.T) {
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -5,2 +5,1 @@
-removed five
 context six
`
	ix := diff.NewIndex(mustParse(t, patch))

	// New line 5 is the context line (position 2), not the removed line.
	pos, _ := ix.FindPosition("a.go", 5)
	if pos == nil || *pos != 2 {
		t.Fatalf("expected position 2 for context line, got %v", pos)
	}
}

func TestIndex_FindPosition_AmbiguousPicksFirst(t *testing.T) {
	// Two hunks both claiming new line 5: impossible in well-formed
	// output, but the resolver must pick the first and flag it.
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -5,1 +5,1 @@
 first copy
@@ -15,1 +5,1 @@
 second copy
`
	ix := diff.NewIndex(mustParse(t, patch))

	pos, ambiguous := ix.FindPosition("a.go", 5)
	if pos == nil || *pos != 1 {
		t.Fatalf("expected first-hunk position 1, got %v", pos)
	}
	if !ambiguous {
		t.Error("expected ambiguity to be flagged")
	}
}

func TestIndex_Paths(t *testing.T) {
	patch := `diff --git a/z.go b/z.go
--- a/z.go
+++ b/z.go
@@ -1,1 +1,1 @@
 z
diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,1 +1,1 @@
 a
`
	ix := diff.NewIndex(mustParse(t, patch))

	paths := ix.Paths()
	if len(paths) != 2 || paths[0] != "z.go" || paths[1] != "a.go" {
		t.Errorf("expected diff-order paths [z.go a.go], got %v", paths)
	}
}
