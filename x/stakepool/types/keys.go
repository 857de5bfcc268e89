package types

// Store key prefixes
var (
	PoolKeyPrefix           = []byte{0x01}
	PositionKeyPrefix       = []byte{0x02}
	OwnerPositionsKeyPrefix = []byte{0x03}
	PoolPositionsKeyPrefix  = []byte{0x04}
)

// PoolKey returns the store key of a staking pool
func PoolKey(poolID string) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), []byte(poolID)...)
}

// PositionKey returns the store key of a stake position
func PositionKey(positionID string) []byte {
	return append(append([]byte{}, PositionKeyPrefix...), []byte(positionID)...)
}

// OwnerPositionsPrefix returns the index prefix of an owner's positions
func OwnerPositionsPrefix(owner string) []byte {
	return append(append([]byte{}, OwnerPositionsKeyPrefix...), []byte(owner+":")...)
}

// OwnerPositionKey indexes a position under its owner
func OwnerPositionKey(owner, positionID string) []byte {
	return append(OwnerPositionsPrefix(owner), []byte(positionID)...)
}

// PoolPositionsPrefix returns the index prefix of a pool's positions
func PoolPositionsPrefix(poolID string) []byte {
	return append(append([]byte{}, PoolPositionsKeyPrefix...), []byte(poolID+":")...)
}

// PoolPositionKey indexes a position under its pool
func PoolPositionKey(poolID, positionID string) []byte {
	return append(PoolPositionsPrefix(poolID), []byte(positionID)...)
}
