package types

// Store key prefixes
var (
	PoolKeyPrefix              = []byte{0x01}
	PositionKeyPrefix          = []byte{0x02}
	BorrowerPositionsKeyPrefix = []byte{0x03}
	PoolPositionsKeyPrefix     = []byte{0x04}
)

// PoolKey returns the store key of a lending pool
func PoolKey(poolID string) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), []byte(poolID)...)
}

// PositionKey returns the store key of a loan
func PositionKey(positionID string) []byte {
	return append(append([]byte{}, PositionKeyPrefix...), []byte(positionID)...)
}

// BorrowerPositionsPrefix returns the index prefix of a borrower's loans
func BorrowerPositionsPrefix(borrower string) []byte {
	return append(append([]byte{}, BorrowerPositionsKeyPrefix...), []byte(borrower+":")...)
}

// BorrowerPositionKey indexes a loan under its borrower
func BorrowerPositionKey(borrower, positionID string) []byte {
	return append(BorrowerPositionsPrefix(borrower), []byte(positionID)...)
}

// PoolPositionsPrefix returns the index prefix of a pool's loans
func PoolPositionsPrefix(poolID string) []byte {
	return append(append([]byte{}, PoolPositionsKeyPrefix...), []byte(poolID+":")...)
}

// PoolPositionKey indexes a loan under its pool
func PoolPositionKey(poolID, positionID string) []byte {
	return append(PoolPositionsPrefix(poolID), []byte(positionID)...)
}
