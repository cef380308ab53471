package parser

import (
	"io"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Parser parses PGN input into Game records.
type Parser struct {
	lexer        *Lexer
	currentToken Token
	started      bool
	recovering   bool
	source       string
}

// NewParser creates a new parser for the given reader.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// SetSource names the input in parse errors, typically a file name.
func (p *Parser) SetSource(name string) {
	p.source = name
}

// nextToken gets the next token from the lexer.
func (p *Parser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

// ParseGame parses a single game from the input.
// Returns nil if no more games are available. After an error the next
// call resumes at the following tag section.
func (p *Parser) ParseGame() (*chess.Game, error) {
	if !p.started {
		p.nextToken()
		p.started = true
	}
	if p.recovering {
		p.skipToNextGame()
		p.recovering = false
	}
	if p.currentToken.Type == EOFToken {
		return nil, nil
	}

	game := chess.NewGame()
	game.StartLine = uint(p.currentToken.Line)

	if err := p.parseTagList(game); err != nil {
		return nil, p.fail(err)
	}
	if err := p.parseMoveText(game); err != nil {
		return nil, p.fail(err)
	}
	game.EndLine = uint(p.lexer.LineNumber())

	if len(game.Tags) == 0 && len(game.Moves) == 0 && game.Result == "" {
		return nil, nil
	}
	p.settleResult(game)
	return game, nil
}

// fail marks the parser for recovery and returns err.
func (p *Parser) fail(err *errors.ParseError) error {
	p.recovering = true
	if p.currentToken.Type != EOFToken {
		p.nextToken()
	}
	return err
}

// skipToNextGame skips tokens until the start of the next tag section.
func (p *Parser) skipToNextGame() {
	for p.currentToken.Type != EOFToken && p.currentToken.Type != TagToken {
		p.nextToken()
	}
}

// parseTagList parses zero or more tag pairs.
func (p *Parser) parseTagList(game *chess.Game) *errors.ParseError {
	for p.currentToken.Type == TagToken {
		name := p.currentToken.Text
		p.nextToken()

		if p.currentToken.Type != StringToken {
			return p.errorAt("tag string for "+name, p.describe())
		}
		game.SetTag(name, p.currentToken.Text)
		p.nextToken()
	}
	if p.currentToken.Type == StringToken {
		return p.errorAt("tag name", p.describe())
	}
	return nil
}

// parseMoveText reads the main line up to and including the result.
// A game without a result ends at the next tag section or end of input.
func (p *Parser) parseMoveText(game *chess.Game) *errors.ParseError {
	for {
		switch p.currentToken.Type {
		case MoveNumber:
			p.nextToken()

		case MoveToken:
			game.AppendMove(p.currentToken.Text)
			p.nextToken()

		case CheckSymbol:
			if len(game.Moves) == 0 {
				return p.errorAt("move", p.describe())
			}
			game.Moves[len(game.Moves)-1] += p.currentToken.Text
			p.nextToken()

		case RAVStart:
			if len(game.Moves) == 0 {
				return p.errorAt("move", p.describe())
			}
			if err := p.skipVariation(); err != nil {
				return err
			}

		case TerminatingResult:
			game.Result = p.currentToken.Text
			p.nextToken()
			return nil

		case TagToken, EOFToken:
			return nil

		default:
			return p.errorAt("move", p.describe())
		}
	}
}

// skipVariation consumes a parenthesised variation, including nested ones.
func (p *Parser) skipVariation() *errors.ParseError {
	depth := 0
	for {
		switch p.currentToken.Type {
		case RAVStart:
			depth++
		case RAVEnd:
			depth--
			if depth == 0 {
				p.nextToken()
				return nil
			}
		case EOFToken, TagToken:
			return p.errorAt("')'", p.describe())
		case ErrorToken, StringToken:
			return p.errorAt("move", p.describe())
		}
		p.nextToken()
	}
}

// settleResult fills in the result from the Result tag when the movetext
// had none, and the Result tag from the movetext when the tag was missing.
func (p *Parser) settleResult(game *chess.Game) {
	tag := game.GetTag(chess.ResultTag)
	switch {
	case game.Result == "" && chess.IsResultToken(tag):
		game.Result = tag
	case game.Result == "":
		game.Result = chess.InProgress
	}
	if tag == "" || tag == "?" {
		game.SetTag(chess.ResultTag, game.Result)
	}
}

// describe names the current token for an error message.
func (p *Parser) describe() string {
	switch p.currentToken.Type {
	case EOFToken:
		return "end of input"
	case ErrorToken:
		return p.currentToken.Text
	case RAVEnd:
		return "')'"
	case RAVStart:
		return "'('"
	default:
		return p.currentToken.Type.String() + " " + p.currentToken.Text
	}
}

// errorAt builds a parse error at the current token. A lexer error
// keeps its own expectation.
func (p *Parser) errorAt(expected, got string) *errors.ParseError {
	if p.currentToken.Type == ErrorToken && p.currentToken.Expected != "" {
		expected = p.currentToken.Expected
	}
	return &errors.ParseError{
		Err:      errors.ErrParseFailure,
		File:     p.source,
		Line:     p.currentToken.Line,
		Column:   p.currentToken.Column,
		Expected: expected,
		Got:      got,
	}
}

// ParseAllGames parses all games from the input. Games that fail to
// parse are skipped; the first error is returned along with every game
// that parsed.
func (p *Parser) ParseAllGames() ([]*chess.Game, error) {
	games := make([]*chess.Game, 0, 16)
	var firstErr error

	for {
		game, err := p.ParseGame()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if game == nil {
			break
		}
		games = append(games, game)
	}

	return games, firstErr
}
