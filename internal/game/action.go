package game

// Action is a player decision for the active hand.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Surrender
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	default:
		return "unknown"
	}
}
