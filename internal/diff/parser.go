package diff

import (
	"fmt"
	"strconv"
	"strings"
)

// File change statuses.
const (
	StatusAdded    = "added"
	StatusModified = "modified"
	StatusDeleted  = "deleted"
	StatusRenamed  = "renamed"
	StatusBinary   = "binary"
)

// LineOrigin represents the origin of a line in a diff hunk.
type LineOrigin int

const (
	// OriginContext is an unchanged line present in both versions.
	OriginContext LineOrigin = iota
	// OriginAdded is a line present only in the new version.
	OriginAdded
	// OriginRemoved is a line present only in the old version.
	OriginRemoved
)

// String returns the origin name.
func (o LineOrigin) String() string {
	switch o {
	case OriginAdded:
		return "added"
	case OriginRemoved:
		return "removed"
	default:
		return "context"
	}
}

// Line is a single line emitted by a diff hunk.
type Line struct {
	Origin  LineOrigin
	Content string // content without the +/-/space prefix
	OldLine *int   // old-file line number, nil for added lines
	NewLine *int   // new-file line number, nil for removed lines
	// Position is the per-file diff position: starts at 1, increments once
	// per emitted line across all hunks in source order. Strictly increasing
	// within a file, resets for each file.
	Position int
}

// Hunk is one @@ region of a file diff.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// File is the parsed diff for a single changed file. Immutable after parsing.
type File struct {
	OldPath string // previous path; differs from Path for renames
	Path    string // new path ("" only for pure deletions with no rename)
	Status  string
	Hunks   []Hunk
}

// MalformedDiffError reports unparseable diff input. It is fatal: the
// position coordinate space cannot be trusted once counts disagree.
type MalformedDiffError struct {
	Path   string
	LineNo int // 1-based line number in the diff text
	Reason string
}

func (e *MalformedDiffError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed diff at line %d (%s): %s", e.LineNo, e.Path, e.Reason)
	}
	return fmt.Sprintf("malformed diff at line %d: %s", e.LineNo, e.Reason)
}

// parser carries the state for one Parse call.
type parser struct {
	lines []string
	pos   int // index into lines

	files   []File
	current *File

	position    int // per-file diff position counter
	oldRemain   int // lines still owed to the open hunk, old side
	newRemain   int // lines still owed to the open hunk, new side
	hunkOldLine int
	hunkNewLine int
	openHunk    *Hunk
}

// Parse turns raw unified-diff text into the per-file structured form.
// It tolerates renames, pure additions/deletions and binary markers, and
// fails with *MalformedDiffError when a hunk header's declared counts
// disagree with the lines actually present.
func Parse(diffText string) ([]File, error) {
	p := &parser{lines: strings.Split(diffText, "\n")}

	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		lineNo := p.pos + 1

		switch {
		case strings.HasPrefix(line, "diff --git "):
			if err := p.closeHunk(lineNo); err != nil {
				return nil, err
			}
			p.startFile(line)

		case strings.HasPrefix(line, "--- "):
			if p.openHunk == nil {
				p.setOldPath(strings.TrimPrefix(line, "--- "))
			} else if err := p.consumeHunkLine(line, lineNo); err != nil {
				return nil, err
			}

		case strings.HasPrefix(line, "+++ "):
			if p.openHunk == nil {
				p.setNewPath(strings.TrimPrefix(line, "+++ "))
			} else if err := p.consumeHunkLine(line, lineNo); err != nil {
				return nil, err
			}

		case strings.HasPrefix(line, "@@"):
			if err := p.closeHunk(lineNo); err != nil {
				return nil, err
			}
			if err := p.startHunk(line, lineNo); err != nil {
				return nil, err
			}

		case strings.HasPrefix(line, "rename from "):
			p.setRename(strings.TrimPrefix(line, "rename from "), "")
		case strings.HasPrefix(line, "rename to "):
			p.setRename("", strings.TrimPrefix(line, "rename to "))
		case strings.HasPrefix(line, "new file mode"):
			p.setStatus(StatusAdded)
		case strings.HasPrefix(line, "deleted file mode"):
			p.setStatus(StatusDeleted)
		case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
			p.setStatus(StatusBinary)

		case strings.HasPrefix(line, "index ") ||
			strings.HasPrefix(line, "old mode") ||
			strings.HasPrefix(line, "new mode") ||
			strings.HasPrefix(line, "similarity index") ||
			strings.HasPrefix(line, "dissimilarity index"):
			// file metadata, not part of the coordinate space

		case strings.HasPrefix(line, `\ `):
			// "\ No newline at end of file" marker

		case line == "":
			// Inside a hunk that still owes lines this is a context line
			// whose leading space was stripped; otherwise it is a blank
			// separator between files or trailing whitespace.
			if p.openHunk != nil && p.oldRemain > 0 && p.newRemain > 0 {
				if err := p.consumeHunkLine(line, lineNo); err != nil {
					return nil, err
				}
			}

		default:
			if p.openHunk == nil {
				// Stray content outside any hunk (e.g. commit message text
				// above the first file header) is ignored.
				if p.current != nil {
					return nil, &MalformedDiffError{
						Path:   p.current.Path,
						LineNo: lineNo,
						Reason: fmt.Sprintf("unexpected content outside hunk: %q", truncate(line, 40)),
					}
				}
			} else if err := p.consumeHunkLine(line, lineNo); err != nil {
				return nil, err
			}
		}

		p.pos++
	}

	if err := p.closeHunk(len(p.lines)); err != nil {
		return nil, err
	}
	p.finishFile()

	return p.files, nil
}

func (p *parser) startFile(header string) {
	p.finishFile()

	f := File{Status: StatusModified}
	// "diff --git a/old b/new"
	if old, new_, ok := splitGitHeader(header); ok {
		f.OldPath = old
		f.Path = new_
	}
	p.current = &f
	p.position = 0
}

func (p *parser) finishFile() {
	if p.current == nil {
		return
	}
	f := *p.current
	if f.Status == StatusModified && f.OldPath != "" && f.Path != "" && f.OldPath != f.Path {
		f.Status = StatusRenamed
	}
	if f.Status == StatusBinary {
		f.Hunks = nil
	}
	p.files = append(p.files, f)
	p.current = nil
}

func (p *parser) setOldPath(raw string) {
	// A "--- " header after a file that already collected hunks opens
	// the next file of a headerless multi-file diff.
	if p.current == nil || len(p.current.Hunks) > 0 {
		p.startFile("")
	}
	path := trimPathPrefix(raw)
	if path == "" {
		// "--- /dev/null": pure addition
		p.current.OldPath = ""
		if p.current.Status == StatusModified {
			p.current.Status = StatusAdded
		}
		return
	}
	p.current.OldPath = path
}

func (p *parser) setNewPath(raw string) {
	if p.current == nil {
		p.startFile("")
	}
	path := trimPathPrefix(raw)
	if path == "" {
		// "+++ /dev/null": pure deletion
		if p.current.Status == StatusModified {
			p.current.Status = StatusDeleted
		}
		p.current.Path = p.current.OldPath
		return
	}
	p.current.Path = path
}

func (p *parser) setRename(from, to string) {
	if p.current == nil {
		return
	}
	if from != "" {
		p.current.OldPath = from
	}
	if to != "" {
		p.current.Path = to
	}
	p.current.Status = StatusRenamed
}

func (p *parser) setStatus(status string) {
	if p.current == nil {
		return
	}
	p.current.Status = status
}

func (p *parser) startHunk(header string, lineNo int) error {
	if p.current == nil {
		// A bare hunk with no preceding file header has no addressable file.
		return &MalformedDiffError{LineNo: lineNo, Reason: "hunk header before any file header"}
	}

	oldStart, oldLines, newStart, newLines, err := parseHunkHeader(header)
	if err != nil {
		return &MalformedDiffError{Path: p.current.Path, LineNo: lineNo, Reason: err.Error()}
	}

	p.openHunk = &Hunk{
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
	}
	p.oldRemain = oldLines
	p.newRemain = newLines
	p.hunkOldLine = oldStart
	p.hunkNewLine = newStart
	return nil
}

// consumeHunkLine accounts one content line against the open hunk.
func (p *parser) consumeHunkLine(line string, lineNo int) error {
	var origin LineOrigin
	var content string

	switch {
	case strings.HasPrefix(line, "+"):
		origin = OriginAdded
		content = line[1:]
	case strings.HasPrefix(line, "-"):
		origin = OriginRemoved
		content = line[1:]
	case strings.HasPrefix(line, " "):
		origin = OriginContext
		content = line[1:]
	case line == "":
		// Some tools emit context lines with the leading space stripped.
		origin = OriginContext
		content = ""
	default:
		return &MalformedDiffError{
			Path:   p.current.Path,
			LineNo: lineNo,
			Reason: fmt.Sprintf("unexpected line prefix %q inside hunk", truncate(line, 20)),
		}
	}

	switch origin {
	case OriginAdded:
		if p.newRemain <= 0 {
			return p.countError(lineNo)
		}
	case OriginRemoved:
		if p.oldRemain <= 0 {
			return p.countError(lineNo)
		}
	case OriginContext:
		if p.oldRemain <= 0 || p.newRemain <= 0 {
			return p.countError(lineNo)
		}
	}

	p.position++
	l := Line{Origin: origin, Content: content, Position: p.position}

	switch origin {
	case OriginAdded:
		l.NewLine = intPtr(p.hunkNewLine)
		p.hunkNewLine++
		p.newRemain--
	case OriginRemoved:
		l.OldLine = intPtr(p.hunkOldLine)
		p.hunkOldLine++
		p.oldRemain--
	case OriginContext:
		l.OldLine = intPtr(p.hunkOldLine)
		l.NewLine = intPtr(p.hunkNewLine)
		p.hunkOldLine++
		p.hunkNewLine++
		p.oldRemain--
		p.newRemain--
	}

	p.openHunk.Lines = append(p.openHunk.Lines, l)

	// Once both declared counts are satisfied the hunk is complete.
	// Closing it here lets a headerless diff's next "--- " line be read
	// as a file header instead of a stray removed line.
	if p.oldRemain == 0 && p.newRemain == 0 {
		return p.closeHunk(lineNo)
	}
	return nil
}

// closeHunk validates that the open hunk received exactly the declared
// number of lines before the next header or end of input.
func (p *parser) closeHunk(lineNo int) error {
	if p.openHunk == nil {
		return nil
	}
	if p.oldRemain != 0 || p.newRemain != 0 {
		return &MalformedDiffError{
			Path:   p.current.Path,
			LineNo: lineNo,
			Reason: fmt.Sprintf("hunk declared -%d,+%d lines but is short by -%d,+%d",
				p.openHunk.OldLines, p.openHunk.NewLines, p.oldRemain, p.newRemain),
		}
	}
	p.current.Hunks = append(p.current.Hunks, *p.openHunk)
	p.openHunk = nil
	return nil
}

func (p *parser) countError(lineNo int) error {
	return &MalformedDiffError{
		Path:   p.current.Path,
		LineNo: lineNo,
		Reason: fmt.Sprintf("hunk contains more lines than declared (-%d,+%d)",
			p.openHunk.OldLines, p.openHunk.NewLines),
	}
}

// parseHunkHeader parses "@@ -10,7 +10,8 @@ optional section heading".
func parseHunkHeader(line string) (oldStart, oldLines, newStart, newLines int, err error) {
	rest := strings.TrimPrefix(line, "@@")
	end := strings.Index(rest, "@@")
	if end < 0 {
		return 0, 0, 0, 0, fmt.Errorf("hunk header missing closing @@")
	}
	fields := strings.Fields(rest[:end])
	if len(fields) != 2 || !strings.HasPrefix(fields[0], "-") || !strings.HasPrefix(fields[1], "+") {
		return 0, 0, 0, 0, fmt.Errorf("invalid hunk range %q", strings.TrimSpace(rest[:end]))
	}

	oldStart, oldLines, err = parseRange(strings.TrimPrefix(fields[0], "-"))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid old range: %w", err)
	}
	newStart, newLines, err = parseRange(strings.TrimPrefix(fields[1], "+"))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid new range: %w", err)
	}
	return oldStart, oldLines, newStart, newLines, nil
}

// parseRange parses "start,count" or "start" (count defaults to 1).
func parseRange(s string) (start, count int, err error) {
	countStr := ""
	if idx := strings.Index(s, ","); idx >= 0 {
		countStr = s[idx+1:]
		s = s[:idx]
	}
	start, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, fmt.Errorf("bad start %q", s)
	}
	if countStr == "" {
		return start, 1, nil
	}
	count, err = strconv.Atoi(countStr)
	if err != nil {
		return 0, 0, fmt.Errorf("bad count %q", countStr)
	}
	return start, count, nil
}

// splitGitHeader extracts paths from a "diff --git a/old b/new" line.
func splitGitHeader(header string) (oldPath, newPath string, ok bool) {
	rest := strings.TrimPrefix(header, "diff --git ")
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return "", "", false
	}
	return trimPathPrefix(fields[0]), trimPathPrefix(fields[len(fields)-1]), true
}

// trimPathPrefix strips the a/ or b/ prefix and maps /dev/null to "".
func trimPathPrefix(raw string) string {
	path := strings.TrimSpace(raw)
	// Drop trailing timestamp some diff tools append after a tab.
	if idx := strings.IndexByte(path, '\t'); idx >= 0 {
		path = path[:idx]
	}
	if path == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func intPtr(n int) *int {
	return &n
}
