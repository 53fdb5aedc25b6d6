// Package logger carries source text, byte/UTF-16 positions and diagnostic
// messages between the scanner, parser and the collaborators that consume
// them. The Msg -> MsgData -> MsgLocation split keeps message formatting,
// sorting and rendering decoupled from where an error was detected, and
// the function-valued Log lets callers swap a deferred collector for a
// streaming one without changing call sites.
package logger

import (
	"fmt"
	"sort"
	"strings"
)

// Loc is the 0-based byte offset of a position from the start of the file.
type Loc struct {
	Start int32
}

// Range is a half-open byte interval [Loc.Start, Loc.Start+Len).
type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

func (r Range) Contains(loc Loc) bool {
	return loc.Start >= r.Loc.Start && loc.Start <= r.End()
}

// MsgKind is the message severity. Parse errors are always Error;
// lint-style collaborators may also emit Warning.
type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		panic("internal error: unknown MsgKind")
	}
}

type MsgLocation struct {
	File       string
	Line       int // 1-based
	Column     int // 0-based, in UTF-16 code units
	Length     int // in UTF-16 code units
	LineText   string
	Suggestion string
}

type MsgData struct {
	Text     string
	Location *MsgLocation
}

type Msg struct {
	Kind  MsgKind
	Data  MsgData
	Notes []MsgData
}

// Log is a function-valued struct rather than an interface so a caller can
// swap a deferred collector (used by single-shot parses and tests) for a
// streaming one (a long-lived server process) without touching call sites.
type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

// NewDeferLog collects every message in memory and only reveals them when
// Done is called. This is the Log that single-shot callers pass to Parse
// and that tests use to assert on the exact diagnostic text produced for
// a source string.
func NewDeferLog() Log {
	var msgs []Msg
	var hasErrors bool
	return Log{
		AddMsg: func(msg Msg) {
			if msg.Kind == Error {
				hasErrors = true
			}
			msgs = append(msgs, msg)
		},
		HasErrors: func() bool { return hasErrors },
		Done: func() []Msg {
			sorted := make([]Msg, len(msgs))
			copy(sorted, msgs)
			sort.SliceStable(sorted, func(i, j int) bool {
				li, lj := sorted[i].Data.Location, sorted[j].Data.Location
				if li == nil || lj == nil {
					return lj != nil
				}
				if li.Line != lj.Line {
					return li.Line < lj.Line
				}
				return li.Column < lj.Column
			})
			return sorted
		},
	}
}

// Source is the immutable text buffer backing a single parse. The
// Stylesheet root node keeps one of these around as its text provider.
type Source struct {
	PrettyPath string
	Contents   string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start : r.Loc.Start+r.Len]
}

func (s *Source) Slice(offset, length int32) string {
	return s.Contents[offset : offset+length]
}

// LineColumnTracker converts byte offsets to (line, column) pairs where
// the column is reported in UTF-16 code units, matching the editor
// protocol on the boundary. Internally everything else in this module
// stays in byte offsets; this is the one seam where UTF-16 semantics are
// introduced.
type LineColumnTracker struct {
	source *Source
	// lineStartOffsets[i] is the byte offset of the start of line i (0-based).
	lineStartOffsets []int32
	built            bool
}

func MakeLineColumnTracker(source *Source) LineColumnTracker {
	return LineColumnTracker{source: source}
}

func (t *LineColumnTracker) ensureBuilt() {
	if t.built {
		return
	}
	t.lineStartOffsets = append(t.lineStartOffsets[:0], 0)
	contents := t.source.Contents
	for i := 0; i < len(contents); i++ {
		if contents[i] == '\n' {
			t.lineStartOffsets = append(t.lineStartOffsets, int32(i+1))
		}
	}
	t.built = true
}

// Position converts a byte offset into a 1-based line and 0-based
// UTF-16 column. The column uses the LSP `Position` character unit; the
// LSP line is 0-based, so an LSP caller subtracts one from line.
func (t *LineColumnTracker) Position(offset int32) (line int, utf16Column int) {
	t.ensureBuilt()
	starts := t.lineStartOffsets
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	lineStart := starts[i]
	utf16Column = utf16Len(t.source.Contents[lineStart:offset])
	return i + 1, utf16Column
}

// OffsetOf converts a 1-based line and 0-based UTF-16 column back into a
// byte offset, the inverse of Position.
func (t *LineColumnTracker) OffsetOf(line, utf16Column int) int32 {
	t.ensureBuilt()
	if line < 1 {
		line = 1
	}
	if line-1 >= len(t.lineStartOffsets) {
		return int32(len(t.source.Contents))
	}
	lineStart := t.lineStartOffsets[line-1]
	var lineEnd int32
	if line < len(t.lineStartOffsets) {
		lineEnd = t.lineStartOffsets[line] - 1
	} else {
		lineEnd = int32(len(t.source.Contents))
	}
	lineText := t.source.Contents[lineStart:lineEnd]

	units := 0
	for byteIdx, r := range lineText {
		if units >= utf16Column {
			return lineStart + int32(byteIdx)
		}
		units += utf16RuneLen(r)
	}
	return lineStart + int32(len(lineText))
}

func (t *LineColumnTracker) lineText(line int) string {
	t.ensureBuilt()
	if line < 1 || line-1 >= len(t.lineStartOffsets) {
		return ""
	}
	lineStart := t.lineStartOffsets[line-1]
	var lineEnd int32
	if line < len(t.lineStartOffsets) {
		lineEnd = t.lineStartOffsets[line] - 1
	} else {
		lineEnd = int32(len(t.source.Contents))
	}
	if lineEnd < lineStart {
		lineEnd = lineStart
	}
	return t.source.Contents[lineStart:lineEnd]
}

func utf16RuneLen(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16RuneLen(r)
	}
	return n
}

// MsgData builds a message anchored at the given range, filling in the
// 1-based line, UTF-16 column and the source line's text for rendering.
func (t *LineColumnTracker) MsgData(r Range, text string) MsgData {
	line, col := t.Position(r.Loc.Start)
	_, endCol := t.Position(r.End())
	length := endCol - col
	if length < 0 {
		length = 0
	}
	return MsgData{
		Text: text,
		Location: &MsgLocation{
			File:     t.source.PrettyPath,
			Line:     line,
			Column:   col,
			Length:   length,
			LineText: t.lineText(line),
		},
	}
}

func (log Log) Add(kind MsgKind, tracker *LineColumnTracker, r Range, text string) {
	log.AddMsg(Msg{Kind: kind, Data: tracker.MsgData(r, text)})
}

func (log Log) AddWithNotes(kind MsgKind, tracker *LineColumnTracker, r Range, text string, notes []MsgData) {
	log.AddMsg(Msg{Kind: kind, Data: tracker.MsgData(r, text), Notes: notes})
}

// String renders a message as a clang-style diagnostic, minus color
// handling (left to TerminalInfo-aware callers).
func (msg Msg) String() string {
	var sb strings.Builder
	loc := msg.Data.Location
	if loc != nil {
		fmt.Fprintf(&sb, "%s:%d:%d: ", loc.File, loc.Line, loc.Column)
	}
	fmt.Fprintf(&sb, "%s: %s\n", msg.Kind.String(), msg.Data.Text)
	if loc != nil && loc.LineText != "" {
		sb.WriteString(loc.LineText)
		sb.WriteByte('\n')
		sb.WriteString(marginCaret(loc.Column))
		sb.WriteByte('\n')
	}
	for _, note := range msg.Notes {
		fmt.Fprintf(&sb, "  note: %s\n", note.Text)
	}
	return sb.String()
}

func marginCaret(col int) string {
	b := make([]byte, col)
	for i := range b {
		b[i] = ' '
	}
	return string(b) + "^"
}
