package types

// Store key prefixes
var (
	PoolKeyPrefix         = []byte{0x01}
	TicketKeyPrefix       = []byte{0x02}
	OwnerTicketsKeyPrefix = []byte{0x03}
	VaultTicketsKeyPrefix = []byte{0x04}
)

// PoolKey returns the store key of a vault
func PoolKey(poolID string) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), []byte(poolID)...)
}

// TicketKey returns the store key of a share ticket
func TicketKey(ticketID string) []byte {
	return append(append([]byte{}, TicketKeyPrefix...), []byte(ticketID)...)
}

// OwnerTicketsPrefix returns the index prefix of an owner's tickets
func OwnerTicketsPrefix(owner string) []byte {
	return append(append([]byte{}, OwnerTicketsKeyPrefix...), []byte(owner+":")...)
}

// OwnerTicketKey indexes a ticket under its owner
func OwnerTicketKey(owner, ticketID string) []byte {
	return append(OwnerTicketsPrefix(owner), []byte(ticketID)...)
}

// VaultTicketsPrefix returns the index prefix of a vault's tickets
func VaultTicketsPrefix(vaultID string) []byte {
	return append(append([]byte{}, VaultTicketsKeyPrefix...), []byte(vaultID+":")...)
}

// VaultTicketKey indexes a ticket under its vault
func VaultTicketKey(vaultID, ticketID string) []byte {
	return append(VaultTicketsPrefix(vaultID), []byte(ticketID)...)
}
