package types

type TradeKind string

const (
	TradeEntry TradeKind = "entry"
	TradeExit  TradeKind = "exit"
)

// Trade is one fill in the simulator's trade log. PnL is only defined on exits.
type Trade struct {
	Kind       TradeKind `json:"kind" csv:"kind"`
	BarIndex   int       `json:"bar_index" csv:"bar_index"`
	Price      float64   `json:"price" csv:"price"`
	Units      float64   `json:"units" csv:"units"`
	Commission float64   `json:"commission" csv:"commission"`
	PnL        NullFloat `json:"pnl" csv:"pnl"`
}
