package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/custody/x/stakepool/types"
)

const flagLockPeriod = "lock-period-ms"

// GetTxCmd returns the transaction commands for the stakepool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Staking pool transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreatePool(),
		CmdFundRewards(),
		CmdStake(),
		CmdClaimRewards(),
		CmdUnstake(),
	)

	return cmd
}

// CmdCreatePool returns the command to open a staking pool
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [stake-denom] [reward-denom] [reward-per-second]",
		Short: "Open a staking pool paying reward-denom to stakers of stake-denom",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			rate, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid reward rate: %v", err)
			}
			lock, err := cmd.Flags().GetUint64(flagLockPeriod)
			if err != nil {
				return err
			}

			msg := &types.MsgCreatePool{
				Creator:         clientCtx.GetFromAddress().String(),
				StakeDenom:      args[0],
				RewardDenom:     args[1],
				RewardPerSecond: rate,
				LockPeriodMs:    lock,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Uint64(flagLockPeriod, 0, "lock period of new positions in milliseconds")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdFundRewards returns the command to fund a pool's rewards
func CmdFundRewards() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund-rewards [pool-id] [amount]",
		Short: "Add reward tokens to a staking pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %v", err)
			}

			msg := &types.MsgFundRewards{
				Funder: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Amount: amount,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdStake returns the command to stake into a pool
func CmdStake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake [pool-id] [amount]",
		Short: "Stake into a pool and open a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %v", err)
			}

			msg := &types.MsgStake{
				Staker: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Amount: amount,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimRewards returns the command to claim a position's rewards
func CmdClaimRewards() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [position-id]",
		Short: "Claim the pending reward of a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaimRewards{
				Owner:      clientCtx.GetFromAddress().String(),
				PositionID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUnstake returns the command to close a position
func CmdUnstake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unstake [position-id]",
		Short: "Close an unlocked position and withdraw its principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgUnstake{
				Owner:      clientCtx.GetFromAddress().String(),
				PositionID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
