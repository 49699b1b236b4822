package review

import (
	"path"
	"strings"

	"github.com/mfinn/llmreview/internal/diff"
)

// FilterPolicy decides which changed files are sent for review.
type FilterPolicy struct {
	// IgnorePatterns are globs matched against the new path. `*` matches
	// within a path segment, `**` matches across segments. A pattern
	// without a slash matches against the base name at any depth, the
	// same way gitignore treats bare patterns.
	IgnorePatterns []string

	// MaxFileSize is the maximum total size in characters of a file's
	// new-side line content. Zero means unlimited.
	MaxFileSize int
}

// FilterFiles splits parsed files into the set sent for review and the
// set excluded by policy. Binary files are always excluded: they have no
// line content to review. Exclusion is whole-file; hunks are never
// partially dropped.
func FilterFiles(files []diff.File, policy FilterPolicy) (included, excluded []diff.File) {
	for _, f := range files {
		if f.Status == diff.StatusBinary || isIgnored(f.Path, policy.IgnorePatterns) || exceedsSize(f, policy.MaxFileSize) {
			excluded = append(excluded, f)
			continue
		}
		included = append(included, f)
	}
	return included, excluded
}

func isIgnored(filePath string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchGlob(pattern, filePath) {
			return true
		}
	}
	return false
}

// exceedsSize reports whether the concatenated content of the file's
// new-side lines (added and context) exceeds the limit.
func exceedsSize(f diff.File, limit int) bool {
	if limit <= 0 {
		return false
	}
	size := 0
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			if l.NewLine != nil {
				size += len(l.Content)
			}
		}
	}
	return size > limit
}

// MatchGlob matches a path against an ignore glob. `*` and `?` stay
// within one path segment; `**` spans any number of segments. Patterns
// without a separator match the base name.
func MatchGlob(pattern, filePath string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		ok, err := path.Match(pattern, path.Base(filePath))
		return err == nil && ok
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(filePath, "/"))
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}

	if pattern[0] == "**" {
		// `**` absorbs zero or more leading segments.
		for skip := 0; skip <= len(segments); skip++ {
			if matchSegments(pattern[1:], segments[skip:]) {
				return true
			}
		}
		return false
	}

	if len(segments) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], segments[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}
