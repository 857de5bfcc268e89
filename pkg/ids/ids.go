// Package ids allocates record identifiers for custody modules. Identifiers
// are derived from a per-kind sequence kept in the module store, so every
// node replaying the same blocks assigns the same IDs.
package ids

import (
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
)

// SequenceKeyPrefix is the store prefix under which per-kind counters live.
var SequenceKeyPrefix = []byte{0xFF}

// Namespace roots every custody identifier.
var Namespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("custody"))

func sequenceKey(kind string) []byte {
	return append(append([]byte{}, SequenceKeyPrefix...), []byte(kind)...)
}

// Sequence returns the last value handed out for kind (0 if none).
func Sequence(store storetypes.KVStore, kind string) uint64 {
	bz := store.Get(sequenceKey(kind))
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

// Next bumps the counter for kind and returns the identifier for the new value.
func Next(store storetypes.KVStore, kind string) string {
	seq := Sequence(store, kind) + 1
	store.Set(sequenceKey(kind), sdk.Uint64ToBigEndian(seq))
	return Format(kind, seq)
}

// Format renders the identifier for a given kind and sequence number.
func Format(kind string, seq uint64) string {
	return uuid.NewSHA1(Namespace, []byte(fmt.Sprintf("%s/%d", kind, seq))).String()
}
