package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"

	"github.com/openalpha/custody/pkg/eventstream"
	lendingtypes "github.com/openalpha/custody/x/lending/types"
	stakepooltypes "github.com/openalpha/custody/x/stakepool/types"
	vaulttypes "github.com/openalpha/custody/x/vault/types"
)

// watchedEvents maps each custody event type to an attribute it always
// carries, which the subscription query keys on
var watchedEvents = map[string]string{
	vaulttypes.EventTypeCreateVault: vaulttypes.AttributeKeyVaultID,
	vaulttypes.EventTypeDeposit:     vaulttypes.AttributeKeyVaultID,
	vaulttypes.EventTypeWithdraw:    vaulttypes.AttributeKeyVaultID,
	vaulttypes.EventTypeMerge:       vaulttypes.AttributeKeyVaultID,
	vaulttypes.EventTypeSplit:       vaulttypes.AttributeKeyVaultID,
	vaulttypes.EventTypeTransfer:    vaulttypes.AttributeKeyTicketID,

	stakepooltypes.EventTypeCreatePool:  stakepooltypes.AttributeKeyPoolID,
	stakepooltypes.EventTypeFundRewards: stakepooltypes.AttributeKeyPoolID,
	stakepooltypes.EventTypeStake:       stakepooltypes.AttributeKeyPoolID,
	stakepooltypes.EventTypeClaim:       stakepooltypes.AttributeKeyPoolID,
	stakepooltypes.EventTypeUnstake:     stakepooltypes.AttributeKeyPoolID,

	lendingtypes.EventTypeCreatePool: lendingtypes.AttributeKeyPoolID,
	lendingtypes.EventTypeSupply:     lendingtypes.AttributeKeyPoolID,
	lendingtypes.EventTypeBorrow:     lendingtypes.AttributeKeyPoolID,
	lendingtypes.EventTypeRepay:      lendingtypes.AttributeKeyPoolID,
	lendingtypes.EventTypeLiquidate:  lendingtypes.AttributeKeyPoolID,
}

// WatchCmd streams custody events from a running node as JSON lines
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [event-type...]",
		Short: "Stream custody events from a node",
		Long: `Subscribe to custody events on a running node and print each one as a
JSON line. With no arguments every custody event type is followed, e.g.

  custodyd watch liquidation repay --node tcp://localhost:26657`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eventTypes, err := selectEvents(args)
			if err != nil {
				return err
			}

			node, err := cmd.Flags().GetString(flags.FlagNode)
			if err != nil {
				return err
			}
			endpoint, err := eventstream.Endpoint(node)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			client, err := eventstream.Dial(ctx, endpoint, log.NewLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer client.Close()

			for _, eventType := range eventTypes {
				if err := client.Subscribe(eventType, watchedEvents[eventType]); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			err = client.Run(ctx, func(ev eventstream.Event) error {
				return enc.Encode(ev)
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().String(flags.FlagNode, "tcp://localhost:26657", "<host>:<port> to CometBFT RPC interface for this chain")
	return cmd
}

// selectEvents validates the requested event types, defaulting to all
func selectEvents(args []string) ([]string, error) {
	if len(args) == 0 {
		all := make([]string, 0, len(watchedEvents))
		for eventType := range watchedEvents {
			all = append(all, eventType)
		}
		sort.Strings(all)
		return all, nil
	}

	for _, eventType := range args {
		if _, ok := watchedEvents[eventType]; !ok {
			return nil, fmt.Errorf("unknown custody event type %q", eventType)
		}
	}
	return args, nil
}
