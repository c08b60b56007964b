// Package source provides a random-access byte stream over a single input
// file, with a line counter owned by the stream and advanced only by the
// lexer that reads it.
package source

import "fmt"

// File is a random-access byte source for one compilation unit. It owns a
// read cursor and a 1-based line counter; nothing outside the lexer may
// mutate the line counter (see pkg/lexer).
type File struct {
	Path string
	buf  []byte
	pos  int
	Line int
}

// New wraps the given bytes as a named source file. The line counter starts
// at 1, matching the convention used throughout diagnostics.
func New(path string, data []byte) *File {
	return &File{Path: path, buf: data, Line: 1}
}

// Len returns the total number of bytes in the source.
func (f *File) Len() int { return len(f.buf) }

// Offset returns the current read cursor position.
func (f *File) Offset() int { return f.pos }

// Seek moves the read cursor to an absolute byte offset. Offsets outside
// [0, Len()] are clamped, mirroring fseek's tolerance of a seek to EOF.
func (f *File) Seek(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.buf) {
		offset = len(f.buf)
	}
	f.pos = offset
}

// ReadByte consumes and returns the next byte, or (0, false) at EOF. It does
// not touch the line counter: callers that care about newlines (the lexer)
// increment Line themselves after inspecting the byte.
func (f *File) ReadByte() (byte, bool) {
	if f.pos >= len(f.buf) {
		return 0, false
	}
	b := f.buf[f.pos]
	f.pos++
	return b, true
}

// UnreadByte rewinds the cursor by one byte. Expressed as read-then-unread
// per the byte source's "peek-like operations" contract.
func (f *File) UnreadByte() {
	if f.pos > 0 {
		f.pos--
	}
}

// PeekByte returns the next byte without consuming it, or (0, false) at EOF.
func (f *File) PeekByte() (byte, bool) {
	b, ok := f.ReadByte()
	if ok {
		f.UnreadByte()
	}
	return b, ok
}

// Slice returns the raw bytes in [start, start+width), clamped to the
// buffer's bounds. Used by diagnostics to recover a lexeme or source line
// without disturbing the lexer's own cursor.
func (f *File) Slice(start, width int) []byte {
	if start < 0 {
		start = 0
	}
	end := start + width
	if end > len(f.buf) {
		end = len(f.buf)
	}
	if start > end {
		start = end
	}
	return f.buf[start:end]
}

// LineBounds returns the [start, end) byte range of the line containing
// offset, scanning backward and forward for '\n'. end excludes the
// terminating newline, if any.
func (f *File) LineBounds(offset int) (start, end int) {
	if offset > len(f.buf) {
		offset = len(f.buf)
	}
	start = offset
	for start > 0 && f.buf[start-1] != '\n' {
		start--
	}
	end = offset
	for end < len(f.buf) && f.buf[end] != '\n' {
		end++
	}
	return start, end
}

func (f *File) String() string {
	return fmt.Sprintf("%s (%d bytes, line %d)", f.Path, len(f.buf), f.Line)
}
