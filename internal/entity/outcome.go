package entity

const (
	OutcomeNone Outcome = ""
	OutcomeX    Outcome = Outcome(SymbolX)
	OutcomeO    Outcome = Outcome(SymbolO)
	OutcomeDraw Outcome = "-"
)

// Outcome is the result of evaluating a board.
type Outcome string

func OutcomeOf(symbol Symbol) Outcome {
	return Outcome(symbol)
}

func (that Outcome) IsTerminal() bool {
	return that != OutcomeNone
}

func (that Outcome) IsDraw() bool {
	return that == OutcomeDraw
}

// Winner returns the winning symbol, if the outcome is a win.
func (that Outcome) Winner() (Symbol, bool) {
	switch that {
	case OutcomeX:
		return SymbolX, true
	case OutcomeO:
		return SymbolO, true
	default:
		return NoSymbol, false
	}
}
