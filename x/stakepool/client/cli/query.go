package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/openalpha/custody/pkg/storequery"
	"github.com/openalpha/custody/x/stakepool/types"
)

const flagLimit = "limit"

// PositionInfo is a CLI-friendly position with its reward projected to the
// latest block time
type PositionInfo struct {
	types.Position
	PendingReward uint64 `json:"pending_reward"`
	Unlocked      bool   `json:"unlocked"`
}

// GetQueryCmd returns the cli query commands for the stakepool module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the stakepool module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryPosition(),
		CmdQueryOwnerPositions(),
		CmdQueryUnlocks(),
	)

	return cmd
}

func queryPool(clientCtx client.Context, poolID string) (*types.Pool, error) {
	bz, _, err := clientCtx.QueryStore(types.PoolKey(poolID), types.StoreKey)
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

func queryPosition(clientCtx client.Context, positionID string) (*types.Position, error) {
	bz, _, err := clientCtx.QueryStore(types.PositionKey(positionID), types.StoreKey)
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, fmt.Errorf("position not found: %s", positionID)
	}
	var pos types.Position
	if err := json.Unmarshal(bz, &pos); err != nil {
		return nil, err
	}
	return &pos, nil
}

func positionInfo(clientCtx client.Context, pos *types.Position, now uint64) PositionInfo {
	pool, _ := queryPool(clientCtx, pos.PoolID)
	return projectPosition(pool, pos, now)
}

// projectPosition evaluates a position at block time now. Without its pool
// the pending reward is left at zero.
func projectPosition(pool *types.Pool, pos *types.Position, now uint64) PositionInfo {
	info := PositionInfo{Position: *pos, Unlocked: pos.IsUnlocked(now)}
	if pool != nil {
		info.PendingReward, _ = pool.PendingReward(pos, now)
	}
	return info
}

// poolRecords decodes the pool records of a subspace scan
func poolRecords(pairs []storequery.Pair) []types.Pool {
	pools := make([]types.Pool, 0, len(pairs))
	for _, pair := range pairs {
		var pool types.Pool
		if err := json.Unmarshal(pair.Value, &pool); err != nil {
			continue
		}
		pools = append(pools, pool)
	}
	return pools
}

func queryIndexedPositions(clientCtx client.Context, prefix []byte) ([]*types.Position, error) {
	pairs, err := storequery.Pairs(clientCtx, types.StoreKey, prefix)
	if err != nil {
		return nil, err
	}

	positions := make([]*types.Position, 0, len(pairs))
	for _, pair := range pairs {
		pos, err := queryPosition(clientCtx, string(pair.Value))
		if err != nil {
			continue
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// CmdQueryPool returns the command to query a staking pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a staking pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pool, err := queryPool(clientCtx, args[0])
			if err != nil {
				return err
			}
			return printJSON(pool)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPools returns the command to list staking pools
func CmdQueryPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Query all staking pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pairs, err := storequery.Pairs(clientCtx, types.StoreKey, types.PoolKeyPrefix)
			if err != nil {
				return err
			}
			return printJSON(poolRecords(pairs))
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPosition returns the command to query a position
func CmdQueryPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position [position-id]",
		Short: "Query a stake position and its pending reward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pos, err := queryPosition(clientCtx, args[0])
			if err != nil {
				return err
			}
			now, err := storequery.ChainNow(clientCtx)
			if err != nil {
				return err
			}
			return printJSON(positionInfo(clientCtx, pos, now))
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryOwnerPositions returns the command to list an account's positions
func CmdQueryOwnerPositions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions [owner]",
		Short: "Query every stake position held by an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			owned, err := queryIndexedPositions(clientCtx, types.OwnerPositionsPrefix(args[0]))
			if err != nil {
				return err
			}
			now, err := storequery.ChainNow(clientCtx)
			if err != nil {
				return err
			}

			positions := make([]PositionInfo, 0, len(owned))
			for _, pos := range owned {
				positions = append(positions, positionInfo(clientCtx, pos, now))
			}
			return printJSON(positions)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryUnlocks returns the command to list a pool's locked positions in
// unlock order
func CmdQueryUnlocks() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlocks [pool-id]",
		Short: "Query the still-locked positions of a pool, soonest unlock first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}
			limit, err := cmd.Flags().GetInt(flagLimit)
			if err != nil {
				return err
			}

			all, err := queryIndexedPositions(clientCtx, types.PoolPositionsPrefix(args[0]))
			if err != nil {
				return err
			}
			now, err := storequery.ChainNow(clientCtx)
			if err != nil {
				return err
			}
			pool, err := queryPool(clientCtx, args[0])
			if err != nil {
				return err
			}
			return printJSON(lockedInfos(pool, all, now, limit))
		},
	}

	cmd.Flags().Int(flagLimit, 0, "Maximum number of positions to return (0 for all)")
	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// lockedInfos lists the positions still locked at now, soonest unlock first
func lockedInfos(pool *types.Pool, positions []*types.Position, now uint64, limit int) []PositionInfo {
	locked := types.NewUnlockSchedule(positions).Locked(now, limit)
	infos := make([]PositionInfo, 0, len(locked))
	for _, pos := range locked {
		infos = append(infos, projectPosition(pool, pos, now))
	}
	return infos
}
