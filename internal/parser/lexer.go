package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/notation"
)

// Lexer tokenizes PGN input one line at a time.
type Lexer struct {
	reader  *bufio.Reader
	line    string
	pos     int
	lineNum int
	eof     bool
}

// Character classification table
var chTab [256]charClass

// Move character classification table
var moveChars [256]bool

func init() {
	initLexTables()
}

// initLexTables initializes the character classification tables.
func initLexTables() {
	for _, c := range []byte{' ', '\t', '\r', '\n', '\f', '\v'} {
		chTab[c] = classSpace
	}

	chTab['['] = classTagStart
	chTab[']'] = classTagEnd
	chTab['"'] = classQuote
	chTab['{'] = classCommentStart
	chTab['}'] = classCommentEnd
	chTab[';'] = classLineComment
	chTab['%'] = classEscape

	chTab['$'] = classNAG
	chTab['!'] = classAnnotate
	chTab['?'] = classAnnotate
	chTab['+'] = classCheck
	chTab['#'] = classCheck
	chTab['.'] = classDot
	chTab['('] = classRAVStart
	chTab[')'] = classRAVEnd
	chTab['*'] = classStar
	chTab['-'] = classDash

	for c := byte('0'); c <= '9'; c++ {
		chTab[c] = classDigit
	}
	for c := byte('A'); c <= 'Z'; c++ {
		chTab[c] = classAlpha
		chTab[c+32] = classAlpha
	}
	chTab['_'] = classAlpha

	initMoveChars()
}

// initMoveChars initializes the move character classification table.
func initMoveChars() {
	for c := byte('a'); c <= 'h'; c++ {
		moveChars[c] = true
	}
	for c := byte('1'); c <= '8'; c++ {
		moveChars[c] = true
	}
	for _, c := range []byte{'K', 'Q', 'R', 'N', 'B'} {
		moveChars[c] = true
	}
	// Capture, promotion and castling
	for _, c := range []byte{'x', ':', '-', '=', 'O', '0'} {
		moveChars[c] = true
	}
}

// NewLexer creates a new lexer for the given reader.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReader(r)}
}

// readLine reads the next line from input.
func (l *Lexer) readLine() bool {
	if l.eof {
		return false
	}
	line, err := l.reader.ReadString('\n')
	if err != nil {
		l.eof = true
		if len(line) == 0 {
			return false
		}
	}
	l.line = line
	l.pos = 0
	l.lineNum++
	return true
}

// currentChar returns the current character or 0 if at end of line.
func (l *Lexer) currentChar() byte {
	if l.pos >= len(l.line) {
		return 0
	}
	return l.line[l.pos]
}

// skipClass advances over a run of characters of the given class.
func (l *Lexer) skipClass(class charClass) {
	for l.pos < len(l.line) && chTab[l.currentChar()] == class {
		l.pos++
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	for {
		if l.pos >= len(l.line) {
			if !l.readLine() {
				return Token{Type: EOFToken, Line: l.lineNum, Column: l.pos + 1}
			}
			continue
		}

		line, column := l.lineNum, l.pos+1
		token := l.getNextSymbol()
		if token.Type != NoToken {
			if token.Line == 0 {
				token.Line, token.Column = line, column
			}
			return token
		}
	}
}

// getNextSymbol identifies the symbol starting at the current position.
func (l *Lexer) getNextSymbol() Token {
	ch := l.currentChar()
	symbolStart := l.pos
	l.pos++

	switch chTab[ch] {
	case classSpace:
		l.skipClass(classSpace)
		return Token{Type: NoToken}

	case classTagStart:
		return l.gatherTag()

	case classTagEnd, classDot:
		l.skipClass(chTab[ch])
		return Token{Type: NoToken}

	case classQuote:
		return l.gatherString()

	case classCommentStart:
		return l.skipComment()

	case classCommentEnd:
		return errorToken("", "unmatched '}'")

	case classLineComment:
		l.pos = len(l.line)
		return Token{Type: NoToken}

	case classEscape:
		// A '%' in the first column escapes the whole line.
		if symbolStart == 0 {
			l.pos = len(l.line)
			return Token{Type: NoToken}
		}
		return errorToken("", "'%' outside the first column")

	case classNAG:
		start := l.pos
		l.skipClass(classDigit)
		if l.pos == start {
			return errorToken("NAG number", "'$'")
		}
		return Token{Type: NoToken}

	case classAnnotate:
		l.skipClass(classAnnotate)
		return Token{Type: NoToken}

	case classCheck:
		l.skipClass(classCheck)
		return Token{Type: CheckSymbol, Text: l.line[symbolStart:l.pos]}

	case classRAVStart:
		return Token{Type: RAVStart}

	case classRAVEnd:
		return Token{Type: RAVEnd}

	case classAlpha:
		return l.gatherMove(symbolStart)

	case classDigit:
		return l.gatherNumeric(ch)

	case classStar:
		return Token{Type: TerminatingResult, Text: "*"}

	case classDash:
		if l.currentChar() == '-' {
			l.pos++
			return errorToken("", "null move '--'")
		}
		return errorToken("", "single '-'")

	default:
		return errorToken("", fmt.Sprintf("character %q", ch))
	}
}

func errorToken(expected, got string) Token {
	return Token{Type: ErrorToken, Expected: expected, Text: got}
}

// gatherTag gathers a tag name after '['.
func (l *Lexer) gatherTag() Token {
	l.skipClass(classSpace)

	start := l.pos
	for l.pos < len(l.line) {
		c := chTab[l.currentChar()]
		if c != classAlpha && c != classDigit {
			break
		}
		l.pos++
	}

	if l.pos == start {
		return errorToken("tag name", "'['")
	}
	return Token{Type: TagToken, Text: l.line[start:l.pos]}
}

// gatherString gathers a quoted string. Backslash escapes the next
// character; strings do not span lines.
func (l *Lexer) gatherString() Token {
	var sb strings.Builder
	escaped := false

	for l.pos < len(l.line) {
		ch := l.currentChar()
		l.pos++

		switch {
		case escaped:
			sb.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			return Token{Type: StringToken, Text: sb.String()}
		case ch == '\n' || ch == '\r':
			// Unterminated; reported below.
		default:
			sb.WriteByte(ch)
		}
	}

	return errorToken(`'"'`, "end of line")
}

// skipComment consumes a brace comment, which may span lines.
func (l *Lexer) skipComment() Token {
	line, column := l.lineNum, l.pos
	for {
		if i := strings.IndexByte(l.line[l.pos:], '}'); i >= 0 {
			l.pos += i + 1
			return Token{Type: NoToken}
		}
		if !l.readLine() {
			l.pos = len(l.line)
			token := errorToken("'}'", "end of input")
			token.Line, token.Column = line, column
			return token
		}
	}
}

// gatherMove gathers a move starting with a letter.
func (l *Lexer) gatherMove(symbolStart int) Token {
	for l.pos < len(l.line) && moveChars[l.currentChar()] {
		l.pos++
	}
	// Consume the rest of an unrecognised word so it is reported whole.
	if l.pos < len(l.line) && chTab[l.currentChar()] == classAlpha {
		for l.pos < len(l.line) && (chTab[l.currentChar()] == classAlpha || chTab[l.currentChar()] == classDigit) {
			l.pos++
		}
		return errorToken("", fmt.Sprintf("move text %q", l.line[symbolStart:l.pos]))
	}

	text := l.line[symbolStart:l.pos]
	if !moveSeemsValid(text) {
		return errorToken("", fmt.Sprintf("move text %q", text))
	}
	return Token{Type: MoveToken, Text: text}
}

// gatherNumeric handles tokens starting with a digit: results, castling
// written with zeros, and move numbers.
func (l *Lexer) gatherNumeric(initialDigit byte) Token {
	remaining := l.line[l.pos:]

	switch initialDigit {
	case '0':
		if strings.HasPrefix(remaining, "-1") {
			l.pos += 2
			return Token{Type: TerminatingResult, Text: "0-1"}
		}
		if strings.HasPrefix(remaining, "-0-0") {
			l.pos += 4
			return Token{Type: MoveToken, Text: notation.QueensideCastleSAN}
		}
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			return Token{Type: MoveToken, Text: notation.KingsideCastleSAN}
		}
	case '1':
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			return Token{Type: TerminatingResult, Text: "1-0"}
		}
		if strings.HasPrefix(remaining, "/2") {
			l.pos += 2
			if strings.HasPrefix(l.line[l.pos:], "-1/2") {
				l.pos += 4
			}
			return Token{Type: TerminatingResult, Text: "1/2-1/2"}
		}
	}

	start := l.pos - 1
	l.skipClass(classDigit)
	number := l.line[start:l.pos]
	l.skipClass(classDot)
	return Token{Type: MoveNumber, Text: number}
}

// moveSeemsValid does a basic check that the text looks like a move.
func moveSeemsValid(text string) bool {
	if text == notation.KingsideCastleSAN || text == notation.QueensideCastleSAN {
		return true
	}
	if len(text) < 2 {
		return false
	}

	// Must contain at least one file (a-h) and one rank (1-8)
	hasFile, hasRank := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'h' {
			hasFile = true
		}
		if c >= '1' && c <= '8' {
			hasRank = true
		}
	}
	return hasFile && hasRank
}

// LineNumber returns the current line number.
func (l *Lexer) LineNumber() int {
	return l.lineNum
}
