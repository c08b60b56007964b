package diag

import (
	"strconv"

	"github.com/bcpl-lang/bcplc/pkg/source"
)

// Location pairs a source-file handle with a byte offset, a line number,
// and a width in bytes. Every token and every AST node carries one.
type Location struct {
	File   *source.File
	Offset int
	Line   int
	Width  int
}

// String renders "path:line:col" for use in error messages that don't need
// the full caret-underline rendering.
func (l Location) String() string {
	if l.File == nil {
		return "<unknown>"
	}
	start, _ := l.File.LineBounds(l.Offset)
	col := l.Offset - start
	return l.File.Path + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(col)
}
