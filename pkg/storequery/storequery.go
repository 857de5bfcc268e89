// Package storequery reads custody module state from a node over ABCI for
// the CLI commands.
package storequery

import (
	"context"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	"github.com/cosmos/cosmos-sdk/client"
	"google.golang.org/protobuf/encoding/protowire"
)

// Pair is one key/value entry of a store subspace
type Pair struct {
	Key   []byte
	Value []byte
}

// ABCIQuerier is the part of client.Context used for raw store reads
type ABCIQuerier interface {
	QueryABCI(req abci.RequestQuery) (abci.ResponseQuery, error)
}

// StatusClient is the part of a CometBFT RPC client used to read chain time
type StatusClient interface {
	Status(ctx context.Context) (*coretypes.ResultStatus, error)
}

// SubspacePath is the ABCI path of a prefix scan over a module store
func SubspacePath(storeName string) string {
	return "/store/" + storeName + "/subspace"
}

// Subspace returns every pair under prefix in the named store at height
// (0 for latest)
func Subspace(q ABCIQuerier, height int64, storeName string, prefix []byte) ([]Pair, error) {
	res, err := q.QueryABCI(abci.RequestQuery{
		Path:   SubspacePath(storeName),
		Data:   prefix,
		Height: height,
	})
	if err != nil {
		return nil, fmt.Errorf("query %s subspace: %w", storeName, err)
	}
	return DecodePairs(res.Value)
}

// DecodePairs decodes the subspace response body, a protobuf message with
// repeated field 1 holding {1: key, 2: value} entries.
func DecodePairs(bz []byte) ([]Pair, error) {
	var pairs []Pair
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		bz = bz[n:]

		if num != 1 || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, bz)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			bz = bz[n:]
			continue
		}

		entry, n := protowire.ConsumeBytes(bz)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		bz = bz[n:]

		pair, err := decodePair(entry)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func decodePair(bz []byte) (Pair, error) {
	var pair Pair
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return Pair{}, protowire.ParseError(n)
		}
		bz = bz[n:]

		if typ != protowire.BytesType || (num != 1 && num != 2) {
			n = protowire.ConsumeFieldValue(num, typ, bz)
			if n < 0 {
				return Pair{}, protowire.ParseError(n)
			}
			bz = bz[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(bz)
		if n < 0 {
			return Pair{}, protowire.ParseError(n)
		}
		bz = bz[n:]

		if num == 1 {
			pair.Key = append([]byte(nil), v...)
		} else {
			pair.Value = append([]byte(nil), v...)
		}
	}
	return pair, nil
}

// EncodePairs is the inverse of DecodePairs
func EncodePairs(pairs []Pair) []byte {
	var out []byte
	for _, pair := range pairs {
		var entry []byte
		entry = protowire.AppendTag(entry, 1, protowire.BytesType)
		entry = protowire.AppendBytes(entry, pair.Key)
		entry = protowire.AppendTag(entry, 2, protowire.BytesType)
		entry = protowire.AppendBytes(entry, pair.Value)

		out = protowire.AppendTag(out, 1, protowire.BytesType)
		out = protowire.AppendBytes(out, entry)
	}
	return out
}

// BlockTimeMs returns the time of the node's latest block in unix
// milliseconds. Keepers evaluate locks, interest and health against block
// time, so CLI projections must too.
func BlockTimeMs(ctx context.Context, node StatusClient) (uint64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	status, err := node.Status(ctx)
	if err != nil {
		return 0, fmt.Errorf("node status: %w", err)
	}
	latest := status.SyncInfo.LatestBlockTime
	if latest.IsZero() {
		return 0, fmt.Errorf("node has not produced a block yet")
	}
	ms := latest.UnixMilli()
	if ms < 0 {
		return 0, nil
	}
	return uint64(ms), nil
}

// Pairs scans prefix in storeName at the client's query height
func Pairs(clientCtx client.Context, storeName string, prefix []byte) ([]Pair, error) {
	return Subspace(clientCtx, clientCtx.Height, storeName, prefix)
}

// ChainNow returns the latest block time of the client's node in unix
// milliseconds
func ChainNow(clientCtx client.Context) (uint64, error) {
	node, err := clientCtx.GetNode()
	if err != nil {
		return 0, err
	}
	return BlockTimeMs(clientCtx.CmdContext, node)
}
