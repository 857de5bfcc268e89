package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/openalpha/custody/pkg/storequery"
	"github.com/openalpha/custody/x/vault/types"
)

// TicketInfo is a CLI-friendly ticket with its current redemption value
type TicketInfo struct {
	types.ShareTicket
	Value uint64 `json:"value"`
}

// VaultInfo is a CLI-friendly vault with its 1e9-scaled exchange rate
type VaultInfo struct {
	types.Pool
	ExchangeRate uint64 `json:"exchange_rate"`
}

// GetQueryCmd returns the cli query commands for the vault module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the vault module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryVault(),
		CmdQueryVaults(),
		CmdQueryTicket(),
		CmdQueryOwnerTickets(),
	)

	return cmd
}

func queryPool(clientCtx client.Context, vaultID string) (*types.Pool, error) {
	bz, _, err := clientCtx.QueryStore(types.PoolKey(vaultID), types.StoreKey)
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, fmt.Errorf("vault not found: %s", vaultID)
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

func queryTicket(clientCtx client.Context, ticketID string) (*types.ShareTicket, error) {
	bz, _, err := clientCtx.QueryStore(types.TicketKey(ticketID), types.StoreKey)
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, fmt.Errorf("ticket not found: %s", ticketID)
	}
	var ticket types.ShareTicket
	if err := json.Unmarshal(bz, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func ticketInfo(clientCtx client.Context, ticket *types.ShareTicket) TicketInfo {
	pool, err := queryPool(clientCtx, ticket.VaultID)
	if err != nil {
		return TicketInfo{ShareTicket: *ticket}
	}
	return valueTicket(pool, ticket)
}

// valueTicket prices a ticket at the vault's current ratio. A ticket that
// would redeem for nothing is shown with zero value.
func valueTicket(pool *types.Pool, ticket *types.ShareTicket) TicketInfo {
	info := TicketInfo{ShareTicket: *ticket}
	info.Value, _ = pool.WithdrawalForShares(ticket.Shares)
	return info
}

// vaultInfos decodes the pool records of a subspace scan, skipping entries
// that are not vaults
func vaultInfos(pairs []storequery.Pair) []VaultInfo {
	vaults := make([]VaultInfo, 0, len(pairs))
	for _, pair := range pairs {
		var pool types.Pool
		if err := json.Unmarshal(pair.Value, &pool); err != nil {
			continue
		}
		vaults = append(vaults, VaultInfo{Pool: pool, ExchangeRate: pool.ExchangeRate()})
	}
	return vaults
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// CmdQueryVault returns the command to query a vault
func CmdQueryVault() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault [vault-id]",
		Short: "Query a vault's balance, shares and exchange rate",
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

			return printJSON(VaultInfo{Pool: *pool, ExchangeRate: pool.ExchangeRate()})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryVaults returns the command to list all vaults
func CmdQueryVaults() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "Query all vaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pairs, err := storequery.Pairs(clientCtx, types.StoreKey, types.PoolKeyPrefix)
			if err != nil {
				return err
			}
			return printJSON(vaultInfos(pairs))
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryTicket returns the command to query a ticket
func CmdQueryTicket() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket [ticket-id]",
		Short: "Query a share ticket and its redemption value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			ticket, err := queryTicket(clientCtx, args[0])
			if err != nil {
				return err
			}

			return printJSON(ticketInfo(clientCtx, ticket))
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryOwnerTickets returns the command to list an account's tickets
func CmdQueryOwnerTickets() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets [owner]",
		Short: "Query every ticket held by an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pairs, err := storequery.Pairs(clientCtx, types.StoreKey, types.OwnerTicketsPrefix(args[0]))
			if err != nil {
				return err
			}

			tickets := make([]TicketInfo, 0, len(pairs))
			for _, pair := range pairs {
				ticket, err := queryTicket(clientCtx, string(pair.Value))
				if err != nil {
					continue
				}
				tickets = append(tickets, ticketInfo(clientCtx, ticket))
			}

			return printJSON(tickets)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
