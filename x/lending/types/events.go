package types

// Event types
const (
	EventTypeCreatePool = "lending_pool_create"
	EventTypeSupply     = "lending_supply"
	EventTypeBorrow     = "borrow"
	EventTypeRepay      = "repay"
	EventTypeLiquidate  = "liquidation"
)

// Event attribute keys
const (
	AttributeKeyPoolID     = "pool_id"
	AttributeKeyPositionID = "position_id"
	AttributeKeyBorrower   = "borrower"
	AttributeKeySender     = "sender"
	AttributeKeyDenom      = "denom"
	AttributeKeyAmount     = "amount"
	AttributeKeyCollateral = "collateral"
	AttributeKeyDebt       = "debt"
	AttributeKeyRefund     = "refund"
	AttributeKeySeized     = "seized"
	AttributeKeyRemainder  = "remainder"
	AttributeKeyLiquidity  = "available_liquidity"
)
