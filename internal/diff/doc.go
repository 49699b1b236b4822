// Package diff parses unified diffs into an addressable coordinate space.
//
// Every emitted line (context, added, removed) gets a per-file diff
// position starting at 1, which is the coordinate GitHub's pull request
// review API uses to anchor inline comments. Hunk headers declare line
// counts and the parser validates them strictly: position arithmetic
// downstream depends on the counts being exact.
package diff
