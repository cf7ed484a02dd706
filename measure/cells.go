package measure

import (
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/richline/layout"
)

// Cells measures text in terminal cells. Every line is one cell high.
type Cells struct {
	cond *runewidth.Condition
}

var _ layout.Measurer = Cells{}

// NewCells returns a cell measurer; eastAsian counts ambiguous-width runes as
// two cells.
func NewCells(eastAsian bool) Cells {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsian
	return Cells{cond: cond}
}

func (c Cells) Measure(text string, _, _, _ bool) (float64, float64) {
	if c.cond == nil {
		return float64(runewidth.StringWidth(text)), 1
	}
	return float64(c.cond.StringWidth(text)), 1
}
