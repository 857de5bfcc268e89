package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/openalpha/custody/pkg/storequery"
	"github.com/openalpha/custody/x/lending/types"
)

const flagLimit = "limit"

// PositionInfo is a CLI-friendly loan with its debt and health projected to
// the latest block time
type PositionInfo struct {
	types.Position
	TotalDebt    uint64 `json:"total_debt"`
	HealthFactor uint64 `json:"health_factor"`
	Liquidatable bool   `json:"liquidatable"`
}

// GetQueryCmd returns the cli query commands for the lending module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the lending module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryPosition(),
		CmdQueryBorrowerPositions(),
		CmdQueryLiquidatable(),
		CmdQueryAtRisk(),
	)

	return cmd
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

func positionInfos(positions []*types.Position, now uint64) []PositionInfo {
	infos := make([]PositionInfo, 0, len(positions))
	for _, pos := range positions {
		infos = append(infos, positionInfo(pos, now))
	}
	return infos
}

func positionInfo(pos *types.Position, now uint64) PositionInfo {
	info := PositionInfo{Position: *pos}
	info.TotalDebt, _ = pos.TotalDebt(now)
	info.HealthFactor, _ = pos.HealthFactor(now)
	info.Liquidatable, _ = pos.IsLiquidatable(now)
	return info
}

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

// riskInfos ranks positions by health factor at now and keeps those the
// selector returns
func riskInfos(positions []*types.Position, now uint64, selector func(*types.RiskBook) []*types.Position) []PositionInfo {
	book, _ := types.NewRiskBook(positions, now)
	return positionInfos(selector(book), now)
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// CmdQueryPool returns the command to query a lending pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a lending pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			bz, _, err := clientCtx.QueryStore(types.PoolKey(args[0]), types.StoreKey)
			if err != nil {
				return err
			}
			if len(bz) == 0 {
				return fmt.Errorf("pool not found: %s", args[0])
			}

			var pool types.Pool
			if err := json.Unmarshal(bz, &pool); err != nil {
				return err
			}
			return printJSON(pool)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPools returns the command to list lending pools
func CmdQueryPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Query all lending pools",
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

// CmdQueryPosition returns the command to query a loan
func CmdQueryPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position [position-id]",
		Short: "Query a loan with its current debt and health factor",
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
			return printJSON(positionInfo(pos, now))
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryBorrowerPositions returns the command to list a borrower's loans
func CmdQueryBorrowerPositions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions [borrower]",
		Short: "Query every open loan of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			positions, err := queryIndexedPositions(clientCtx, types.BorrowerPositionsPrefix(args[0]))
			if err != nil {
				return err
			}
			now, err := storequery.ChainNow(clientCtx)
			if err != nil {
				return err
			}
			return printJSON(positionInfos(positions, now))
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryLiquidatable returns the command to list a pool's unhealthy loans
func CmdQueryLiquidatable() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidatable [pool-id]",
		Short: "Query the loans of a pool whose health factor is below 1.0, most at risk first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			positions, err := queryIndexedPositions(clientCtx, types.PoolPositionsPrefix(args[0]))
			if err != nil {
				return err
			}

			now, err := storequery.ChainNow(clientCtx)
			if err != nil {
				return err
			}
			return printJSON(riskInfos(positions, now, (*types.RiskBook).Liquidatable))
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryAtRisk returns the command to list a pool's loans below a health
// factor
func CmdQueryAtRisk() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "at-risk [pool-id] [max-health-factor]",
		Short: "Query the loans of a pool below a health factor (1000 = 1.0), most at risk first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			maxHealth, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid health factor %q: %w", args[1], err)
			}
			limit, err := cmd.Flags().GetInt(flagLimit)
			if err != nil {
				return err
			}

			positions, err := queryIndexedPositions(clientCtx, types.PoolPositionsPrefix(args[0]))
			if err != nil {
				return err
			}

			now, err := storequery.ChainNow(clientCtx)
			if err != nil {
				return err
			}
			return printJSON(riskInfos(positions, now, func(book *types.RiskBook) []*types.Position {
				return book.Below(maxHealth, limit)
			}))
		},
	}

	cmd.Flags().Int(flagLimit, 0, "Maximum number of loans to return (0 for all)")
	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
