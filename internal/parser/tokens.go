// Package parser reads PGN text into game records: tag pairs, the SAN
// moves of the main line and the terminating result. Comments, NAGs,
// annotation glyphs and variations are recognised and skipped.
package parser

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Tokens returned to the parser
	EOFToken TokenType = iota
	TagToken
	StringToken
	MoveNumber
	MoveToken
	CheckSymbol
	RAVStart
	RAVEnd
	TerminatingResult
	ErrorToken

	// Internal: the lexer consumed input without producing a token.
	NoToken
)

// tokenTypeNames maps token types to their string representations.
var tokenTypeNames = [...]string{
	EOFToken:          "EOF",
	TagToken:          "TAG",
	StringToken:       "STRING",
	MoveNumber:        "MOVE_NUMBER",
	MoveToken:         "MOVE",
	CheckSymbol:       "CHECK_SYMBOL",
	RAVStart:          "RAV_START",
	RAVEnd:            "RAV_END",
	TerminatingResult: "TERMINATING_RESULT",
	ErrorToken:        "ERROR_TOKEN",
	NoToken:           "NO_TOKEN",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token represents a lexical token with its value.
type Token struct {
	Type TokenType

	// Text is the tag name, string value, move text, check symbols or
	// result. For ErrorToken it describes what was found.
	Text string

	// Expected is set on ErrorToken when a specific character was missing.
	Expected string

	// Line and column (1-based) of the first character, for error reporting
	Line   int
	Column int
}

// charClass classifies single input bytes for the lexer.
type charClass int

const (
	classError charClass = iota
	classSpace
	classTagStart
	classTagEnd
	classQuote
	classCommentStart
	classCommentEnd
	classLineComment
	classEscape
	classNAG
	classAnnotate
	classCheck
	classDot
	classRAVStart
	classRAVEnd
	classAlpha
	classDigit
	classStar
	classDash
)
