package chess

// Names of the PGN tags the engine reads or writes itself.
const (
	EventTag       = "Event"
	SiteTag        = "Site"
	DateTag        = "Date"
	RoundTag       = "Round"
	WhiteTag       = "White"
	BlackTag       = "Black"
	ResultTag      = "Result"
	SetupTag       = "SetUp"
	FENTag         = "FEN"
	PlyCountTag    = "PlyCount"
	TerminationTag = "Termination"
)

// SevenTagRoster contains the seven required PGN tags in order.
var SevenTagRoster = []string{
	EventTag,
	SiteTag,
	DateTag,
	RoundTag,
	WhiteTag,
	BlackTag,
	ResultTag,
}

// IsSevenTagRosterTag returns true if the tag is one of the seven required tags.
func IsSevenTagRosterTag(tag string) bool {
	for _, t := range SevenTagRoster {
		if t == tag {
			return true
		}
	}
	return false
}

// Result tokens terminating PGN movetext.
const (
	WhiteWins  = "1-0"
	BlackWins  = "0-1"
	DrawResult = "1/2-1/2"
	InProgress = "*"
)

// IsResultToken reports whether s is one of the four PGN result tokens.
func IsResultToken(s string) bool {
	switch s {
	case WhiteWins, BlackWins, DrawResult, InProgress:
		return true
	default:
		return false
	}
}
