package types

// Event types
const (
	EventTypeCreateVault = "vault_create"
	EventTypeDeposit     = "vault_deposit"
	EventTypeWithdraw    = "vault_withdraw"
	EventTypeMerge       = "vault_merge"
	EventTypeSplit       = "vault_split"
	EventTypeTransfer    = "vault_transfer"
)

// Event attribute keys
const (
	AttributeKeyVaultID     = "vault_id"
	AttributeKeyTicketID    = "ticket_id"
	AttributeKeyDonorID     = "donor_ticket_id"
	AttributeKeyOwner       = "owner"
	AttributeKeyRecipient   = "recipient"
	AttributeKeyDenom       = "denom"
	AttributeKeyAmount      = "amount"
	AttributeKeyShares      = "shares"
	AttributeKeyBalance     = "balance"
	AttributeKeyTotalShares = "total_shares"
	AttributeKeyMinDeposit  = "min_deposit"
)
