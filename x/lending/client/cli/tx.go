package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/custody/x/lending/types"
)

// GetTxCmd returns the transaction commands for the lending module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Lending transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreatePool(),
		CmdSupplyLiquidity(),
		CmdBorrow(),
		CmdRepay(),
		CmdLiquidate(),
	)

	return cmd
}

func parseAmount(arg, name string) (uint64, error) {
	amount, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return amount, nil
}

// CmdCreatePool returns the command to open a lending pool
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [denom]",
		Short: "Open a lending pool for a denom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgCreatePool{
				Creator: clientCtx.GetFromAddress().String(),
				Denom:   args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSupplyLiquidity returns the command to supply lendable funds
func CmdSupplyLiquidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supply [pool-id] [amount]",
		Short: "Supply liquidity to a lending pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := parseAmount(args[1], "amount")
			if err != nil {
				return err
			}

			msg := &types.MsgSupplyLiquidity{
				Supplier: clientCtx.GetFromAddress().String(),
				PoolID:   args[0],
				Amount:   amount,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdBorrow returns the command to open a loan
func CmdBorrow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "borrow [pool-id] [collateral] [amount]",
		Short: "Escrow collateral and borrow up to 75% of it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			collateral, err := parseAmount(args[1], "collateral")
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2], "amount")
			if err != nil {
				return err
			}

			msg := &types.MsgBorrow{
				Borrower:   clientCtx.GetFromAddress().String(),
				PoolID:     args[0],
				Collateral: collateral,
				Amount:     amount,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRepay returns the command to repay a loan
func CmdRepay() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repay [position-id] [payment]",
		Short: "Repay a loan in full and recover its collateral",
		Long:  "Repay a loan in full and recover its collateral. Any payment above the total debt is refunded.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			payment, err := parseAmount(args[1], "payment")
			if err != nil {
				return err
			}

			msg := &types.MsgRepay{
				Borrower:   clientCtx.GetFromAddress().String(),
				PositionID: args[0],
				Payment:    payment,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdLiquidate returns the command to liquidate an unhealthy loan
func CmdLiquidate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidate [position-id] [payment]",
		Short: "Repay an unhealthy loan and seize its collateral plus a 5% bonus",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			payment, err := parseAmount(args[1], "payment")
			if err != nil {
				return err
			}

			msg := &types.MsgLiquidate{
				Liquidator: clientCtx.GetFromAddress().String(),
				PositionID: args[0],
				Payment:    payment,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
