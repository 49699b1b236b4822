package diff

// Index provides path-keyed lookup over a parsed diff. It is the single
// source of truth for mapping (file, new line) references onto diff
// positions.
type Index struct {
	files map[string]File
	order []string
}

// NewIndex builds an index over parsed files. Later entries with a
// duplicate path win, matching how git emits at most one entry per path.
func NewIndex(files []File) Index {
	ix := Index{files: make(map[string]File, len(files))}
	for _, f := range files {
		if _, seen := ix.files[f.Path]; !seen {
			ix.order = append(ix.order, f.Path)
		}
		ix.files[f.Path] = f
	}
	return ix
}

// File returns the parsed file for the given new path.
func (ix Index) File(path string) (File, bool) {
	f, ok := ix.files[path]
	return f, ok
}

// Paths returns the new paths in diff order.
func (ix Index) Paths() []string {
	return ix.order
}

// FindPosition maps a new-file line number to its diff position within
// the named file. Only added and context lines carry new-file numbers,
// so removed lines can never resolve.
//
// Returns nil when the file is absent or no hunk covers the line.
// ambiguous is true when the same new-line number appears in more than
// one hunk (impossible in a well-formed diff, guarded against anyway);
// the first hunk in source order wins.
func (ix Index) FindPosition(path string, newLine int) (pos *int, ambiguous bool) {
	f, ok := ix.files[path]
	if !ok || newLine <= 0 {
		return nil, false
	}

	for _, hunk := range f.Hunks {
		for _, line := range hunk.Lines {
			if line.NewLine == nil || *line.NewLine != newLine {
				continue
			}
			if pos == nil {
				p := line.Position
				pos = &p
			} else {
				ambiguous = true
			}
		}
	}
	return pos, ambiguous
}
