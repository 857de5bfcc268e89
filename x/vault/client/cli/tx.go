package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/custody/x/vault/types"
)

const flagMinDeposit = "min-deposit"

// GetTxCmd returns the transaction commands for the vault module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Vault module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreateVault(),
		CmdDeposit(),
		CmdWithdraw(),
		CmdWithdrawPartial(),
		CmdMerge(),
		CmdSplit(),
		CmdTransferTicket(),
	)

	return cmd
}

func parseAmount(arg, what string) (uint64, error) {
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", what, err)
	}
	return v, nil
}

// CmdCreateVault returns the command to open a vault
func CmdCreateVault() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-vault [denom]",
		Short: "Open an empty vault pooling the given denom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			minDeposit, err := cmd.Flags().GetUint64(flagMinDeposit)
			if err != nil {
				return err
			}

			msg := &types.MsgCreateVault{
				Creator:    clientCtx.GetFromAddress().String(),
				Denom:      args[0],
				MinDeposit: minDeposit,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Uint64(flagMinDeposit, 0, "smallest accepted deposit")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDeposit returns the command to deposit into a vault
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [vault-id] [amount]",
		Short: "Deposit into a vault and receive a share ticket",
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

			msg := &types.MsgDeposit{
				Depositor: clientCtx.GetFromAddress().String(),
				VaultID:   args[0],
				Amount:    amount,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to redeem a whole ticket
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [ticket-id]",
		Short: "Redeem every share on a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgWithdraw{
				Owner:    clientCtx.GetFromAddress().String(),
				TicketID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdrawPartial returns the command to redeem part of a ticket
func CmdWithdrawPartial() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-partial [ticket-id] [shares]",
		Short: "Redeem some shares of a ticket and keep the rest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			shares, err := parseAmount(args[1], "shares")
			if err != nil {
				return err
			}

			msg := &types.MsgWithdrawPartial{
				Owner:    clientCtx.GetFromAddress().String(),
				TicketID: args[0],
				Shares:   shares,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdMerge returns the command to merge two tickets
func CmdMerge() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [target-ticket-id] [donor-ticket-id]",
		Short: "Fold the donor ticket into the target ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgMerge{
				Owner:          clientCtx.GetFromAddress().String(),
				TargetTicketID: args[0],
				DonorTicketID:  args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSplit returns the command to split a ticket
func CmdSplit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [ticket-id] [shares]",
		Short: "Carve shares off a ticket into a new ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			shares, err := parseAmount(args[1], "shares")
			if err != nil {
				return err
			}

			msg := &types.MsgSplit{
				Owner:    clientCtx.GetFromAddress().String(),
				TicketID: args[0],
				Shares:   shares,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdTransferTicket returns the command to hand a ticket to another account
func CmdTransferTicket() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-ticket [ticket-id] [recipient]",
		Short: "Transfer ownership of a ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgTransferTicket{
				Owner:     clientCtx.GetFromAddress().String(),
				TicketID:  args[0],
				Recipient: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
