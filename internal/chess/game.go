package chess

// Game is a game as read from or written to PGN: its tag pairs, its
// movetext as SAN tokens and its terminating result.
type Game struct {
	// Tags for this game (e.g., Event, Site, Date, White, Black, Result).
	Tags map[string]string

	// The SAN move tokens of the main line, without move numbers,
	// comments, NAGs or variations.
	Moves []string

	// Terminating result token ("1-0", "0-1", "1/2-1/2" or "*").
	Result string

	// Line numbers of the start and end of the game in the input.
	StartLine uint
	EndLine   uint
}

// NewGame creates a new empty game.
func NewGame() *Game {
	return &Game{
		Tags: make(map[string]string),
	}
}

// GetTag returns a tag value, or empty string if not present.
func (g *Game) GetTag(name string) string {
	return g.Tags[name]
}

// SetTag sets a tag value.
func (g *Game) SetTag(name, value string) {
	g.ensureTags()
	g.Tags[name] = value
}

// HasTag returns true if the tag is present.
func (g *Game) HasTag(name string) bool {
	_, ok := g.Tags[name]
	return ok
}

// ensureTags initializes the Tags map if it is nil.
func (g *Game) ensureTags() {
	if g.Tags == nil {
		g.Tags = make(map[string]string)
	}
}

// White returns the White player name.
func (g *Game) White() string {
	return g.GetTag(WhiteTag)
}

// Black returns the Black player name.
func (g *Game) Black() string {
	return g.GetTag(BlackTag)
}

// FEN returns the FEN string if present.
func (g *Game) FEN() string {
	return g.GetTag(FENTag)
}

// PlyCount returns the number of half-moves in the game.
func (g *Game) PlyCount() int {
	return len(g.Moves)
}

// AppendMove adds a move to the end of the game.
func (g *Game) AppendMove(san string) {
	g.Moves = append(g.Moves, san)
}
