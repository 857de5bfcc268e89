package types

// Module name and store key
const (
	ModuleName = "vault"
	StoreKey   = ModuleName
)

// Identifier kinds handed to the ID allocator
const (
	IDKindVault  = "vault"
	IDKindTicket = "ticket"
)

// Pool is a single pooled balance against which shares are minted and burned.
type Pool struct {
	PoolID      string `json:"pool_id"`
	Denom       string `json:"denom"`
	Creator     string `json:"creator"`
	Balance     uint64 `json:"balance"`
	TotalShares uint64 `json:"total_shares"`
	MinDeposit  uint64 `json:"min_deposit"`
	CreatedAt   int64  `json:"created_at"`
}

// NewPool creates an empty vault
func NewPool(poolID, denom, creator string, minDeposit uint64, createdAt int64) *Pool {
	return &Pool{
		PoolID:     poolID,
		Denom:      denom,
		Creator:    creator,
		MinDeposit: minDeposit,
		CreatedAt:  createdAt,
	}
}

// ShareTicket is a claim on TotalShares of one vault. Whoever is recorded as
// Owner may redeem, split, merge or transfer it.
type ShareTicket struct {
	TicketID string `json:"ticket_id"`
	VaultID  string `json:"vault_id"`
	Shares   uint64 `json:"shares"`
	Owner    string `json:"owner"`
}

// NewShareTicket creates a ticket record
func NewShareTicket(ticketID, vaultID, owner string, shares uint64) *ShareTicket {
	return &ShareTicket{
		TicketID: ticketID,
		VaultID:  vaultID,
		Shares:   shares,
		Owner:    owner,
	}
}
