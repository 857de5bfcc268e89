package types

// Module name and store key
const (
	ModuleName = "lending"
	StoreKey   = ModuleName
)

// Identifier kinds handed to the ID allocator
const (
	IDKindPool     = "lendpool"
	IDKindPosition = "loan"
)

// Risk parameters in basis points. They are fixed for every pool.
const (
	MaxLTVBps               uint64 = 7_500
	LiquidationThresholdBps uint64 = 8_500
	LiquidationBonusBps     uint64 = 10_500
	InterestRateBps         uint64 = 1_000

	// HealthFactorOne is a health factor of 1.0
	HealthFactorOne uint64 = 1_000
)

// Pool lends Denom against collateral of the same denom.
//
// Interest repaid flows into AvailableLiquidity but never into
// TotalDeposits, so AvailableLiquidity + TotalBorrowed - TotalDeposits is
// the pool's realised profit.
type Pool struct {
	PoolID             string `json:"pool_id"`
	Creator            string `json:"creator"`
	Denom              string `json:"denom"`
	AvailableLiquidity uint64 `json:"available_liquidity"`
	TotalBorrowed      uint64 `json:"total_borrowed"`
	TotalDeposits      uint64 `json:"total_deposits"`
	CreatedAt          uint64 `json:"created_at"`
}

// NewPool creates an empty lending pool
func NewPool(poolID, creator, denom string, now uint64) *Pool {
	return &Pool{
		PoolID:    poolID,
		Creator:   creator,
		Denom:     denom,
		CreatedAt: now,
	}
}

// Position is a single-shot loan. It is opened once and closed by a full
// repay or a liquidation; nothing checkpoints it in between, so interest
// always runs from LastUpdateTime.
type Position struct {
	PositionID          string `json:"position_id"`
	PoolID              string `json:"pool_id"`
	Borrower            string `json:"borrower"`
	Collateral          uint64 `json:"collateral"`
	BorrowedAmount      uint64 `json:"borrowed_amount"`
	InterestAccumulated uint64 `json:"interest_accumulated"`
	LastUpdateTime      uint64 `json:"last_update_time"`
}
