// Package lexer turns a pkg/source.File into a stream of Tokens: literals,
// punctuation, operators, keywords, and the virtual SEMICOLON/DO tokens the
// parser needs in place of real statement terminators.
package lexer

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bcpl-lang/bcplc/pkg/diag"
	"github.com/bcpl-lang/bcplc/pkg/source"
	"github.com/bcpl-lang/bcplc/pkg/tags"
)

// Lexer scans one source.File. It is not safe for concurrent use: the
// parser drives it with a single cur/prev pair, one file at a time.
type Lexer struct {
	file *source.File
	tags *tags.Set
	log  *zap.Logger
}

// New creates a lexer over file, sharing tagSet across every file in the
// compilation (the only mutable state $-directives carry from file to
// file). log may be nil.
func New(file *source.File, tagSet *tags.Set, log *zap.Logger) *Lexer {
	return &Lexer{file: file, tags: tagSet, log: log}
}

func isDigitByte(b byte) bool  { return b >= '0' && b <= '9' }
func isAlphaByte(b byte) bool  { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isAlnumByte(b byte) bool  { return isDigitByte(b) || isAlphaByte(b) }
func isWordByte(b byte) bool   { return isAlnumByte(b) || b == '_' }
func isHexDigitByte(b byte) bool {
	return isDigitByte(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isSpaceByte(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }

func (l *Lexer) loc(start, line, width int) diag.Location {
	return diag.Location{File: l.file, Offset: start, Line: line, Width: width}
}

func (l *Lexer) tokenAt(kind TokenKind, start, line int) Token {
	return Token{Kind: kind, Loc: l.loc(start, line, l.file.Offset()-start)}
}

func (l *Lexer) errorToken(start, line int, message string) Token {
	return Token{Kind: TOKEN_ERROR, Str: message, Loc: l.loc(start, line, l.file.Offset()-start)}
}

// Next returns the next token, given the previously returned token (TOKEN_EOF
// with a zero Location is a fine sentinel for "start of file"). prev drives
// the virtual SEMICOLON/DO insertion described in §4.5.7.
func (l *Lexer) Next(prev Token) Token {
	for {
		newline := l.skipTrivia()
		start := l.file.Offset()
		startLine := l.file.Line

		b, ok := l.file.ReadByte()
		if !ok {
			return l.finish(prev, newline, start, l.tokenAt(TOKEN_EOF, start, startLine))
		}

		tok, restart, bypass := l.dispatch(b, start, startLine)
		if restart {
			continue
		}
		if bypass {
			if l.log != nil {
				l.log.Debug("lex", zap.Stringer("token", tok))
			}
			return tok
		}
		result := l.finish(prev, newline, start, tok)
		if l.log != nil {
			l.log.Debug("lex", zap.Stringer("token", result))
		}
		return result
	}
}

// skipTrivia consumes runs of whitespace, resetting its own newline tracking
// each time it gives way to a comment (matching the original lexer's
// goto-repeat structure): only whitespace immediately adjacent to the
// eventual token counts toward the virtual-token newline flag.
func (l *Lexer) skipTrivia() bool {
	newline := false
	for {
		b, ok := l.file.PeekByte()
		if !ok || !isSpaceByte(b) {
			return newline
		}
		l.file.ReadByte()
		if b == '\n' {
			l.file.Line++
			newline = true
		}
	}
}

// dispatch produces one token (or none) starting at the already-consumed
// byte b. restart means "no token was produced, resume scanning" (comments
// and $-directives). bypass means "this error token must be returned
// immediately, skipping virtual-token insertion", mirroring the original's
// early `return` from inside the `$` handling.
func (l *Lexer) dispatch(b byte, start, startLine int) (tok Token, restart bool, bypass bool) {
	switch b {
	case '(':
		return l.tokenAt(TOKEN_LPAREN, start, startLine), false, false
	case ')':
		return l.tokenAt(TOKEN_RPAREN, start, startLine), false, false
	case '[':
		return l.tokenAt(TOKEN_LBRACKET, start, startLine), false, false
	case ']':
		return l.tokenAt(TOKEN_RBRACKET, start, startLine), false, false
	case '{':
		return l.tokenAt(TOKEN_LBRACE, start, startLine), false, false
	case '}':
		return l.tokenAt(TOKEN_RBRACE, start, startLine), false, false
	case '$':
		return l.lexDirective(start, startLine)
	case '"', '\'':
		return l.readLiteral(b, start, startLine), false, false
	case '+':
		return l.tokenAt(TOKEN_PLUS, start, startLine), false, false
	case '-':
		if l.consumeIf('>') {
			return l.tokenAt(TOKEN_COND, start, startLine), false, false
		}
		return l.tokenAt(TOKEN_MINUS, start, startLine), false, false
	case '*':
		return l.tokenAt(TOKEN_STAR, start, startLine), false, false
	case '/':
		return l.lexSlash(start, startLine)
	case '=':
		return l.tokenAt(TOKEN_EQ, start, startLine), false, false
	case '!':
		return l.tokenAt(TOKEN_EMARK, start, startLine), false, false
	case ':':
		if l.consumeIf('=') {
			return l.tokenAt(TOKEN_ASSIGN, start, startLine), false, false
		}
		if l.consumeIf(':') {
			return l.tokenAt(TOKEN_OF, start, startLine), false, false
		}
		return l.tokenAt(TOKEN_COLON, start, startLine), false, false
	case ',':
		return l.tokenAt(TOKEN_COMMA, start, startLine), false, false
	case '.':
		return l.tokenAt(TOKEN_DOT, start, startLine), false, false
	case ';':
		return l.tokenAt(TOKEN_SEMICOLON, start, startLine), false, false
	case '<':
		if l.consumeIf('=') {
			return l.tokenAt(TOKEN_LE, start, startLine), false, false
		}
		return l.tokenAt(TOKEN_LT, start, startLine), false, false
	case '>':
		if l.consumeIf('=') {
			return l.tokenAt(TOKEN_GE, start, startLine), false, false
		}
		return l.tokenAt(TOKEN_GT, start, startLine), false, false
	case '~':
		if l.consumeIf('=') {
			return l.tokenAt(TOKEN_NE, start, startLine), false, false
		}
		return l.tokenAt(TOKEN_NOT, start, startLine), false, false
	case '?':
		return l.tokenAt(TOKEN_QMARK, start, startLine), false, false
	case '@':
		return l.tokenAt(TOKEN_AT, start, startLine), false, false
	case '#':
		return l.lexNumberPrefixed(start, startLine), false, false
	default:
		if isDigitByte(b) {
			l.file.UnreadByte()
			return l.readNumber(10, start, startLine), false, false
		}
		if isAlphaByte(b) {
			return l.readIdent(b, start, startLine), false, false
		}
		return l.errorToken(start, startLine, "unexpected character"), false, false
	}
}

// consumeIf consumes the next byte and reports true if it equals want,
// otherwise leaves the cursor untouched.
func (l *Lexer) consumeIf(want byte) bool {
	b, ok := l.file.PeekByte()
	if !ok || b != want {
		return false
	}
	l.file.ReadByte()
	return true
}

func (l *Lexer) lexSlash(start, startLine int) (Token, bool, bool) {
	if l.consumeIf('/') {
		for {
			b, ok := l.file.ReadByte()
			if !ok || b == '\n' {
				if b == '\n' {
					l.file.Line++
				}
				break
			}
		}
		return Token{}, true, false
	}
	if l.consumeIf('*') {
		for {
			b, ok := l.file.ReadByte()
			if !ok {
				return l.errorToken(start, startLine, "unclosed multiline comment"), false, false
			}
			if b == '\n' {
				l.file.Line++
				continue
			}
			if b == '*' && l.consumeIf('/') {
				return Token{}, true, false
			}
		}
	}
	return l.tokenAt(TOKEN_SLASH, start, startLine), false, false
}

// finish applies §4.5.7's virtual SEMICOLON/DO insertion: when it fires, the
// stream is rewound to the start of tok so that tok itself is (re-)produced
// on the caller's next call to Next.
func (l *Lexer) finish(prev Token, newline bool, start int, tok Token) Token {
	if newline && EndsCommand(prev.Kind) && MayStartCommand(tok.Kind) {
		l.file.Seek(start)
		return Token{Kind: TOKEN_SEMICOLON, Loc: l.loc(start, tok.Loc.Line, 0)}
	}
	if !newline && EndsExpression(prev.Kind) && MustStartCommand(tok.Kind) {
		l.file.Seek(start)
		return Token{Kind: TOKEN_DO, Loc: l.loc(start, tok.Loc.Line, 0)}
	}
	return tok
}

// ---------------------------------------------------------------------
// Identifiers and keywords.
// ---------------------------------------------------------------------

func (l *Lexer) readIdent(first byte, start, startLine int) Token {
	var sb strings.Builder
	sb.WriteByte(first)
	for {
		b, ok := l.file.PeekByte()
		if !ok || !isWordByte(b) {
			break
		}
		l.file.ReadByte()
		sb.WriteByte(b)
	}
	word := sb.String()
	if kind, ok := lookupKeyword(word); ok {
		return l.tokenAt(kind, start, startLine)
	}
	return Token{Kind: TOKEN_IDENT, Str: word, Loc: l.loc(start, startLine, l.file.Offset()-start)}
}

// ---------------------------------------------------------------------
// Numeric literals.
// ---------------------------------------------------------------------

const maxNumericDigits = 64

func digitAlphabet(base int) string {
	switch base {
	case 2:
		return "01_"
	case 8:
		return "01234567_"
	case 16:
		return "0123456789abcdefABCDEF_"
	default:
		return "0123456789_"
	}
}

// lexNumberPrefixed handles the '#' that selects a non-decimal base: #b/#B
// binary, #o/#O octal, #x/#X hex, and bare '#<digit>' octal with the digit
// re-read as the first byte of the literal body.
func (l *Lexer) lexNumberPrefixed(start, startLine int) Token {
	b, ok := l.file.PeekByte()
	base := 8
	switch {
	case ok && (b == 'b' || b == 'B'):
		l.file.ReadByte()
		base = 2
	case ok && (b == 'o' || b == 'O'):
		l.file.ReadByte()
		base = 8
	case ok && (b == 'x' || b == 'X'):
		l.file.ReadByte()
		base = 16
	}
	return l.readNumber(base, start, startLine)
}

// readNumber consumes a maximal run of alphanumeric-or-underscore bytes,
// validating each against base's digit alphabet, stripping '_' separators,
// and parsing the result. At most 64 significant (non-underscore) digits
// are accepted.
func (l *Lexer) readNumber(base int, start, startLine int) Token {
	alphabet := digitAlphabet(base)
	var digits strings.Builder
	significant := 0

	for {
		b, ok := l.file.PeekByte()
		if !ok || !isWordByte(b) {
			break
		}
		if !strings.ContainsRune(alphabet, rune(b)) {
			l.file.ReadByte()
			return l.errorToken(start, startLine, "unexpected character in numeric constant")
		}
		l.file.ReadByte()
		if b == '_' {
			continue
		}
		significant++
		if significant > maxNumericDigits {
			return l.errorToken(start, startLine, "numeric constant too long")
		}
		digits.WriteByte(b)
	}

	if digits.Len() == 0 {
		return l.errorToken(start, startLine, "invalid numeric constant")
	}

	val, err := strconv.ParseUint(digits.String(), base, 64)
	if err != nil {
		return l.errorToken(start, startLine, "invalid numeric constant")
	}
	return Token{Kind: TOKEN_INTEGER, Int: val, Loc: l.loc(start, startLine, l.file.Offset()-start)}
}

// ---------------------------------------------------------------------
// String and char literals.
// ---------------------------------------------------------------------

// readLiteral reads the raw body up to the matching quote, resolves its
// escapes, and produces a STRING or CHAR token.
func (l *Lexer) readLiteral(quote byte, start, startLine int) Token {
	var raw []byte
	for {
		b, ok := l.file.ReadByte()
		if !ok || b == '\n' {
			return l.errorToken(start, startLine, "unexpected end of line; expect closing quote")
		}
		if b == quote {
			break
		}
		raw = append(raw, b)
	}

	units, errMsg := resolveEscapes(raw)
	if errMsg != "" {
		return l.errorToken(start, startLine, errMsg)
	}

	if quote == '\'' {
		if len(units) != 1 {
			return l.errorToken(start, startLine, "char literal has more than one characters")
		}
		cp := units[0]
		return Token{Kind: TOKEN_CHAR, Int: uint64(cp), Wide: cp > 127, Loc: l.loc(start, startLine, l.file.Offset()-start)}
	}

	var sb strings.Builder
	for _, u := range units {
		sb.WriteRune(rune(u))
	}
	return Token{Kind: TOKEN_STRING, Str: sb.String(), Loc: l.loc(start, startLine, l.file.Offset()-start)}
}

type encodingMode int

const (
	encodingASCII encodingMode = iota
	encodingUTF8
	encodingGB2312
)

var basicEscapeCodes = map[byte]byte{
	'n':  '\n',
	'c':  '\r',
	'p':  '\f',
	's':  ' ',
	'b':  '\b',
	't':  '\t',
	'e':  0x1b,
	'"':  '"',
	'\'': '\'',
	'*':  '*',
}

// resolveEscapes resolves "*"-introduced escapes in raw into a sequence of
// resolved code-point units, using a fresh output buffer rather than the
// original's in-place left-shifting. The encoding mode set by *#g/*#u is
// local to a single literal: it does not carry over between literals.
func resolveEscapes(raw []byte) ([]uint32, string) {
	var units []uint32
	encoding := encodingASCII
	i := 0

	for i < len(raw) {
		b := raw[i]
		if b != '*' {
			units = append(units, uint32(b))
			i++
			continue
		}
		if i+1 >= len(raw) {
			return nil, "invalid escape sequence"
		}
		c := raw[i+1]

		switch {
		case basicEscapeByte(c):
			units = append(units, uint32(basicEscapeCodes[c]))
			i += 2

		case c == 'x' || c == 'X':
			j := i + 2
			for j < len(raw) && j < i+4 && isHexDigitByte(raw[j]) {
				j++
			}
			if j == i+2 {
				return nil, "invalid escape sequence, expect `*xhh`, where `h` is 0-F"
			}
			v, _ := strconv.ParseUint(string(raw[i+2:j]), 16, 32)
			units = append(units, uint32(v))
			i = j

		case isDigitByte(c):
			j := i + 1
			for j < len(raw) && j < i+4 && isDigitByte(raw[j]) {
				j++
			}
			v, _ := strconv.ParseUint(string(raw[i+1:j]), 10, 32)
			if v > 255 {
				return nil, "invalid escape sequence, expect `*ddd`, where `d` is 0-9"
			}
			units = append(units, uint32(v))
			i = j

		case c == '#':
			if i+2 >= len(raw) {
				return nil, "invalid escape sequence after `*#`"
			}
			sel := raw[i+2]
			switch {
			case sel == 'g', sel == 'u':
				// *#g / *#u switches the encoding mode for the rest of this
				// literal, and also doubles as the *#hhhh production when
				// 1-4 digits of the matching base immediately follow: *#uE9
				// both switches to UTF-8 and resolves the code point 0x00E9.
				if sel == 'u' {
					encoding = encodingUTF8
				} else {
					encoding = encodingGB2312
				}
				digitsFrom := i + 3
				n, v := scanModeDigits(raw, digitsFrom, encoding)
				if n > 0 {
					units = append(units, v)
				}
				i = digitsFrom + n

			case isHexDigitByte(sel):
				if encoding == encodingASCII {
					return nil, "`*#hhhh` escape sequence can only be used in UTF-8 or GB2312 mode"
				}
				n, v := scanModeDigits(raw, i+2, encoding)
				if n == 0 {
					return nil, "invalid escape sequence after `*#`"
				}
				units = append(units, v)
				i = i + 2 + n

			default:
				return nil, "invalid escape sequence after `*#`"
			}

		default:
			return nil, "invalid escape sequence"
		}
	}

	return units, ""
}

// scanModeDigits reads up to 4 digits of the base matching mode (hex for
// UTF-8, decimal for GB2312) starting at from, returning how many it
// consumed and the value they form. n == 0 means no digit of the right
// base was present.
func scanModeDigits(raw []byte, from int, mode encodingMode) (n int, value uint32) {
	pred := isDigitByte
	base := 10
	if mode == encodingUTF8 {
		pred = isHexDigitByte
		base = 16
	}
	j := from
	for j < len(raw) && j < from+4 && pred(raw[j]) {
		j++
	}
	if j == from {
		return 0, 0
	}
	v, _ := strconv.ParseUint(string(raw[from:j]), base, 32)
	return j - from, uint32(v)
}

// basicEscapeByte reports whether c is a recognized basic escape letter.
// Only the lowercase spellings are valid; uppercase is a lex error rather
// than silently folding, unlike the original's latent uppercase-maps-to-NUL
// behavior.
func basicEscapeByte(c byte) bool {
	_, ok := basicEscapeCodes[c]
	return ok
}

// ---------------------------------------------------------------------
// $-directives (§4.5.6): in-stream compile-time conditionals that mutate
// the shared tag set rather than producing tokens.
// ---------------------------------------------------------------------

func (l *Lexer) lexDirective(start, startLine int) (Token, bool, bool) {
	b, ok := l.file.ReadByte()
	if !ok {
		return l.errorToken(start, startLine, "unexpected character after `$`; expect `$`, `<`, `>` or `~`"), false, true
	}

	switch b {
	case '$':
		tag, errTok, hasErr := l.readDirectiveTag(start, startLine, "$$")
		if hasErr {
			return errTok, false, true
		}
		l.tags.Toggle(tag)
		return Token{}, true, false

	case '<':
		tag, errTok, hasErr := l.readDirectiveTag(start, startLine, "$<")
		if hasErr {
			return errTok, false, true
		}
		if _, present := l.tags.Contains(tag); present {
			return Token{}, true, false
		}
		if errTok, hasErr := l.skipConditional(tag, start, startLine); hasErr {
			return errTok, false, true
		}
		return Token{}, true, false

	case '~':
		tag, errTok, hasErr := l.readDirectiveTag(start, startLine, "$~")
		if hasErr {
			return errTok, false, true
		}
		if _, present := l.tags.Contains(tag); !present {
			return Token{}, true, false
		}
		if errTok, hasErr := l.skipConditional(tag, start, startLine); hasErr {
			return errTok, false, true
		}
		return Token{}, true, false

	case '>':
		if errTok, hasErr := l.skipDirectiveTagName(start, startLine); hasErr {
			return errTok, false, true
		}
		return Token{}, true, false

	default:
		return l.errorToken(start, startLine, "unexpected character after `$`; expect `$`, `<`, `>` or `~`"), false, true
	}
}

func (l *Lexer) readDirectiveTag(start, startLine int, sym string) (string, Token, bool) {
	b, ok := l.file.PeekByte()
	if !ok || !isWordByte(b) {
		return "", l.errorToken(start, startLine, "expect identifier after `"+sym+"`"), true
	}
	var sb strings.Builder
	for {
		b, ok := l.file.PeekByte()
		if !ok || !isWordByte(b) {
			break
		}
		l.file.ReadByte()
		sb.WriteByte(b)
	}
	return sb.String(), Token{}, false
}

func (l *Lexer) skipDirectiveTagName(start, startLine int) (Token, bool) {
	b, ok := l.file.PeekByte()
	if !ok || !isWordByte(b) {
		return l.errorToken(start, startLine, "expect identifier after `$>`"), true
	}
	for {
		b, ok := l.file.PeekByte()
		if !ok || !isWordByte(b) {
			break
		}
		l.file.ReadByte()
	}
	return Token{}, false
}

// skipConditional discards source text up to and including the "$>tag"
// that closes this conditional block, tracking newlines as it goes.
// Reaching EOF without finding the closing marker is silently accepted,
// matching the original's skip_conditional.
func (l *Lexer) skipConditional(tag string, start, startLine int) (Token, bool) {
	for {
		b, ok := l.file.ReadByte()
		if !ok {
			return Token{}, false
		}
		if b == '\n' {
			l.file.Line++
			continue
		}
		if b != '$' {
			continue
		}
		nb, ok := l.file.PeekByte()
		if !ok || nb != '>' {
			continue
		}
		l.file.ReadByte()
		name, errTok, hasErr := l.readDirectiveTag(start, startLine, "$>")
		if hasErr {
			return errTok, true
		}
		if name == tag {
			return Token{}, false
		}
	}
}
