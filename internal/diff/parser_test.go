package diff_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mfinn/llmreview/internal/diff"
)

const simpleDiff = `diff --git a/pkg/example.go b/pkg/example.go
index 1111111..2222222 100644
--- a/pkg/example.go
+++ b/pkg/example.go
@@ -10,2 +10,4 @@ func example() {
 context line
+added line
+second addition
 another context
`

func TestParse_SingleHunk(t *testing.T) {
	files, err := diff.Parse(simpleDiff)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}

	f := files[0]
	if f.Path != "pkg/example.go" {
		t.Errorf("expected path pkg/example.go, got %q", f.Path)
	}
	if f.Status != diff.StatusModified {
		t.Errorf("expected status modified, got %q", f.Status)
	}
	if len(f.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(f.Hunks))
	}

	hunk := f.Hunks[0]
	if hunk.NewStart != 10 || hunk.NewLines != 4 {
		t.Errorf("expected new range 10,4; got %d,%d", hunk.NewStart, hunk.NewLines)
	}
	if len(hunk.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(hunk.Lines))
	}

	// GitHub anchors inline comments by this position: new-file lines
	// 10,11,12,13 map to positions 1,2,3,4 in source order.
	wantNew := []int{10, 11, 12, 13}
	for i, line := range hunk.Lines {
		if line.Position != i+1 {
			t.Errorf("line %d: expected position %d, got %d", i, i+1, line.Position)
		}
		if line.NewLine == nil || *line.NewLine != wantNew[i] {
			t.Errorf("line %d: expected new line %d, got %v", i, wantNew[i], line.NewLine)
		}
	}
}

func TestParse_MultipleFilesResetPosition(t *testing.T) {
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,2 +1,3 @@
 context
+added
 more
diff --git a/b.go b/b.go
--- a/b.go
+++ b/b.go
@@ -5,1 +5,2 @@
 context
+added
`

	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}

	// Position restarts at 1 for the second file.
	second := files[1]
	if second.Hunks[0].Lines[0].Position != 1 {
		t.Errorf("expected position reset to 1, got %d", second.Hunks[0].Lines[0].Position)
	}

	// Positions strictly increase within each file.
	for _, f := range files {
		last := 0
		for _, h := range f.Hunks {
			for _, l := range h.Lines {
				if l.Position != last+1 {
					t.Errorf("%s: expected position %d, got %d", f.Path, last+1, l.Position)
				}
				last = l.Position
			}
		}
	}
}

func TestParse_PositionSpansHunks(t *testing.T) {
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,2 +1,3 @@
 one
+two
 three
@@ -20,2 +21,3 @@
 twenty
+twentyone
 twentytwo
`

	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	hunks := files[0].Hunks
	if len(hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(hunks))
	}
	// The counter carries across hunks within the file.
	if got := hunks[1].Lines[0].Position; got != 4 {
		t.Errorf("expected first line of second hunk at position 4, got %d", got)
	}
}

func TestParse_PureAddition(t *testing.T) {
	patch := `diff --git a/new.go b/new.go
new file mode 100644
--- /dev/null
+++ b/new.go
@@ -0,0 +1,3 @@
+line one
+line two
+line three
`

	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	f := files[0]
	if f.Status != diff.StatusAdded {
		t.Errorf("expected status added, got %q", f.Status)
	}
	if f.OldPath != "" {
		t.Errorf("expected empty old path, got %q", f.OldPath)
	}
	for i, line := range f.Hunks[0].Lines {
		if line.Origin != diff.OriginAdded {
			t.Errorf("line %d: expected added origin", i)
		}
		if line.OldLine != nil {
			t.Errorf("line %d: added line must not carry an old line number", i)
		}
	}
}

func TestParse_PureDeletion(t *testing.T) {
	patch := `diff --git a/gone.go b/gone.go
deleted file mode 100644
--- a/gone.go
+++ /dev/null
@@ -1,2 +0,0 @@
-first
-second
`

	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	f := files[0]
	if f.Status != diff.StatusDeleted {
		t.Errorf("expected status deleted, got %q", f.Status)
	}
	for i, line := range f.Hunks[0].Lines {
		if line.Origin != diff.OriginRemoved {
			t.Errorf("line %d: expected removed origin", i)
		}
		if line.NewLine != nil {
			t.Errorf("line %d: removed line must not carry a new line number", i)
		}
	}
}

func TestParse_Rename(t *testing.T) {
	patch := `diff --git a/old/name.go b/new/name.go
similarity index 95%
rename from old/name.go
rename to new/name.go
--- a/old/name.go
+++ b/new/name.go
@@ -3,2 +3,3 @@
 unchanged
+tweak
 unchanged too
`

	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	f := files[0]
	if f.Status != diff.StatusRenamed {
		t.Errorf("expected status renamed, got %q", f.Status)
	}
	if f.OldPath != "old/name.go" || f.Path != "new/name.go" {
		t.Errorf("unexpected paths: %q -> %q", f.OldPath, f.Path)
	}
}

func TestParse_BinaryFile(t *testing.T) {
	patch := `diff --git a/logo.png b/logo.png
index 1111111..2222222 100644
Binary files a/logo.png and b/logo.png differ
`

	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	f := files[0]
	if f.Status != diff.StatusBinary {
		t.Errorf("expected status binary, got %q", f.Status)
	}
	if len(f.Hunks) != 0 {
		t.Errorf("expected zero hunks for binary file, got %d", len(f.Hunks))
	}
}

func TestParse_NoNewlineMarker(t *testing.T) {
	patch := `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -1,1 +1,1 @@
-old
\ No newline at end of file
+new
\ No newline at end of file
`

	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := len(files[0].Hunks[0].Lines); got != 2 {
		t.Errorf("expected 2 lines, got %d", got)
	}
}

func TestParse_UndeclaredLines(t *testing.T) {
	// Header claims 5 new lines but only 3 follow.
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,3 +1,5 @@
 one
+two
 three
diff --git a/b.go b/b.go
--- a/b.go
+++ b/b.go
@@ -1,1 +1,1 @@
 fine
`

	_, err := diff.Parse(patch)
	var malformed *diff.MalformedDiffError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDiffError, got %v", err)
	}
	if malformed.Path != "a.go" {
		t.Errorf("expected error attributed to a.go, got %q", malformed.Path)
	}
}

func TestParse_ExcessLines(t *testing.T) {
	// The declared counts are used up by " one"; the extra addition is
	// stray content that belongs to no hunk.
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,1 +1,1 @@
 one
+extra addition
`

	_, err := diff.Parse(patch)
	var malformed *diff.MalformedDiffError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDiffError, got %v", err)
	}
	if !strings.Contains(malformed.Reason, "outside hunk") {
		t.Errorf("unexpected reason: %s", malformed.Reason)
	}
}

func TestParse_MidHunkExcessRemovals(t *testing.T) {
	// Old side declares one line but two removals arrive while the new
	// side is still owed content.
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,1 +1,2 @@
-one
-two
+three
+four
`

	_, err := diff.Parse(patch)
	var malformed *diff.MalformedDiffError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDiffError, got %v", err)
	}
	if !strings.Contains(malformed.Reason, "more lines than declared") {
		t.Errorf("unexpected reason: %s", malformed.Reason)
	}
}

func TestParse_TruncatedAtEOF(t *testing.T) {
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,3 +1,3 @@
 one
 two
`

	_, err := diff.Parse(patch)
	var malformed *diff.MalformedDiffError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDiffError, got %v", err)
	}
}

func TestParse_CountsMatchDeclaredRanges(t *testing.T) {
	files, err := diff.Parse(simpleDiff)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for _, f := range files {
		for _, h := range f.Hunks {
			var oldCount, newCount int
			for _, l := range h.Lines {
				if l.OldLine != nil {
					oldCount++
				}
				if l.NewLine != nil {
					newCount++
				}
			}
			if oldCount != h.OldLines {
				t.Errorf("%s: old count %d != declared %d", f.Path, oldCount, h.OldLines)
			}
			if newCount != h.NewLines {
				t.Errorf("%s: new count %d != declared %d", f.Path, newCount, h.NewLines)
			}
		}
	}
}

func TestParse_HeaderlessMultiFileDiff(t *testing.T) {
	// Plain "diff -ru" output carries no "diff --git" headers; the next
	// file starts at its "--- " line once the previous hunk's declared
	// counts are used up.
	patch := `--- a/foo.go
+++ b/foo.go
@@ -1,2 +1,2 @@
 shared
-old line
+new line
--- a/bar.go
+++ b/bar.go
@@ -5,1 +5,2 @@
 keep
+added
`

	files, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}

	foo := files[0]
	if foo.Path != "foo.go" || foo.Status != diff.StatusModified {
		t.Errorf("expected modified foo.go, got %q %q", foo.Path, foo.Status)
	}
	if len(foo.Hunks) != 1 || len(foo.Hunks[0].Lines) != 3 {
		t.Fatalf("unexpected foo.go hunks: %+v", foo.Hunks)
	}

	bar := files[1]
	if bar.Path != "bar.go" || bar.OldPath != "bar.go" {
		t.Errorf("expected bar.go paths, got %q %q", bar.Path, bar.OldPath)
	}
	if len(bar.Hunks) != 1 || len(bar.Hunks[0].Lines) != 2 {
		t.Fatalf("unexpected bar.go hunks: %+v", bar.Hunks)
	}

	// Position resets per file.
	added := bar.Hunks[0].Lines[1]
	if added.Origin != diff.OriginAdded || added.Position != 2 {
		t.Errorf("expected added line at position 2, got %+v", added)
	}
	if added.NewLine == nil || *added.NewLine != 6 {
		t.Errorf("expected new line 6, got %v", added.NewLine)
	}
}

func TestParse_Empty(t *testing.T) {
	files, err := diff.Parse("")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}
