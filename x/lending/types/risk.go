package types

import (
	"github.com/google/btree"
)

const riskBookDegree = 16

// riskItem orders loans by health factor, lowest first, then by position id
type riskItem struct {
	healthFactor uint64
	positionID   string
	pos          *Position
}

// Less implements btree.Item
func (a *riskItem) Less(b btree.Item) bool {
	other := b.(*riskItem)
	if a.healthFactor != other.healthFactor {
		return a.healthFactor < other.healthFactor
	}
	return a.positionID < other.positionID
}

// RiskBook is a snapshot of loans ordered from most to least at risk
type RiskBook struct {
	tree *btree.BTree
}

// NewRiskBook ranks positions by their health factor at now. Positions whose
// health cannot be evaluated are returned separately.
func NewRiskBook(positions []*Position, now uint64) (*RiskBook, []error) {
	book := &RiskBook{tree: btree.New(riskBookDegree)}

	var errs []error
	for _, pos := range positions {
		hf, err := pos.HealthFactor(now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		book.tree.ReplaceOrInsert(&riskItem{healthFactor: hf, positionID: pos.PositionID, pos: pos})
	}
	return book, errs
}

// Len returns the number of ranked loans
func (b *RiskBook) Len() int {
	return b.tree.Len()
}

// Below returns the loans with a health factor strictly under maxHealth,
// most at risk first. A zero limit returns all of them.
func (b *RiskBook) Below(maxHealth uint64, limit int) []*Position {
	positions := []*Position{}
	b.tree.AscendLessThan(&riskItem{healthFactor: maxHealth}, func(item btree.Item) bool {
		positions = append(positions, item.(*riskItem).pos)
		return limit == 0 || len(positions) < limit
	})
	return positions
}

// Liquidatable returns the loans with a health factor below 1.0
func (b *RiskBook) Liquidatable() []*Position {
	return b.Below(HealthFactorOne, 0)
}

// Riskiest returns the loan with the lowest health factor, or nil when the
// book is empty
func (b *RiskBook) Riskiest() *Position {
	item := b.tree.Min()
	if item == nil {
		return nil
	}
	return item.(*riskItem).pos
}
