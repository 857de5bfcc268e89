package keeper

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/custody/metrics"
	"github.com/openalpha/custody/x/vault/types"
)

func TestMsgServerDepositAndWithdraw(t *testing.T) {
	f := setupKeeper(t)
	ms := NewMsgServerImpl(f.keeper)

	created, err := ms.CreateVault(f.ctx, &types.MsgCreateVault{Creator: alice.String(), Denom: testDenom})
	require.NoError(t, err)

	dep, err := ms.Deposit(f.ctx, &types.MsgDeposit{Depositor: bob.String(), VaultID: created.VaultID, Amount: 800})
	require.NoError(t, err)
	require.Equal(t, uint64(800), dep.Shares)

	split, err := ms.Split(f.ctx, &types.MsgSplit{Owner: bob.String(), TicketID: dep.TicketID, Shares: 200})
	require.NoError(t, err)
	require.Equal(t, uint64(600), split.RemainingShares)

	partial, err := ms.WithdrawPartial(f.ctx, &types.MsgWithdrawPartial{Owner: bob.String(), TicketID: dep.TicketID, Shares: 100})
	require.NoError(t, err)
	require.Equal(t, uint64(100), partial.Amount)
	require.Equal(t, uint64(100), partial.SharesBurned)
	require.Equal(t, uint64(500), partial.RemainingShares)

	merged, err := ms.Merge(f.ctx, &types.MsgMerge{Owner: bob.String(), TargetTicketID: dep.TicketID, DonorTicketID: split.NewTicketID})
	require.NoError(t, err)
	require.Equal(t, uint64(700), merged.Shares)

	_, err = ms.TransferTicket(f.ctx, &types.MsgTransferTicket{Owner: bob.String(), TicketID: dep.TicketID, Recipient: carol.String()})
	require.NoError(t, err)

	full, err := ms.Withdraw(f.ctx, &types.MsgWithdraw{Owner: carol.String(), TicketID: dep.TicketID})
	require.NoError(t, err)
	require.Equal(t, uint64(700), full.Amount)
	require.Equal(t, uint64(700), full.SharesBurned)
	f.requireConserved(t)
}

func TestMsgServerRejectionLeavesNoTrace(t *testing.T) {
	f := setupKeeper(t)
	ms := NewMsgServerImpl(f.keeper)
	pool := f.createVault(t, 0)
	ticket := f.deposit(t, alice, pool.PoolID, 1_000)

	rejections := metrics.GetCollector().RejectionsTotal.WithLabelValues(
		types.ModuleName, types.TypeMsgSplit, types.ModuleName, "5")
	before := testutil.ToFloat64(rejections)
	eventsBefore := len(f.ctx.EventManager().Events())

	_, err := ms.Split(f.ctx, &types.MsgSplit{Owner: alice.String(), TicketID: ticket.TicketID, Shares: 1_000})
	require.ErrorIs(t, err, types.ErrInsufficientShares)

	require.Equal(t, before+1, testutil.ToFloat64(rejections))
	require.Len(t, f.ctx.EventManager().Events(), eventsBefore)
	require.Equal(t, uint64(1_000), f.keeper.GetTicket(f.ctx, ticket.TicketID).Shares)
	require.Len(t, f.keeper.GetOwnerTickets(f.ctx, alice.String()), 1)
}

func TestMsgServerMetricsOnlyOnDelivery(t *testing.T) {
	f := setupKeeper(t)
	ms := NewMsgServerImpl(f.keeper)
	pool := f.createVault(t, 0)

	flows := metrics.GetCollector().VaultFlowsTotal.WithLabelValues(pool.PoolID, metrics.FlowIn)
	rejections := metrics.GetCollector().RejectionsTotal.WithLabelValues(
		types.ModuleName, types.TypeMsgSplit, types.ModuleName, "5")
	flowsBefore := testutil.ToFloat64(flows)
	rejectionsBefore := testutil.ToFloat64(rejections)

	checkCtx := f.ctx.WithIsCheckTx(true)
	dep, err := ms.Deposit(checkCtx, &types.MsgDeposit{Depositor: bob.String(), VaultID: pool.PoolID, Amount: 300})
	require.NoError(t, err)
	_, err = ms.Split(checkCtx, &types.MsgSplit{Owner: bob.String(), TicketID: dep.TicketID, Shares: 300})
	require.ErrorIs(t, err, types.ErrInsufficientShares)
	require.Equal(t, flowsBefore, testutil.ToFloat64(flows))
	require.Equal(t, rejectionsBefore, testutil.ToFloat64(rejections))

	_, err = ms.Deposit(f.ctx, &types.MsgDeposit{Depositor: bob.String(), VaultID: pool.PoolID, Amount: 300})
	require.NoError(t, err)
	require.Equal(t, flowsBefore+1, testutil.ToFloat64(flows))
}

func TestMsgValidateBasic(t *testing.T) {
	testCases := []struct {
		name string
		msg  interface{ ValidateBasic() error }
		err  error
	}{
		{"deposit zero", &types.MsgDeposit{Depositor: alice.String(), VaultID: "v", Amount: 0}, types.ErrInvalidAmount},
		{"deposit bad address", &types.MsgDeposit{Depositor: "x", VaultID: "v", Amount: 1}, types.ErrInvalidAddress},
		{"create bad denom", &types.MsgCreateVault{Creator: alice.String(), Denom: "!"}, types.ErrInvalidDenom},
		{"merge same", &types.MsgMerge{Owner: alice.String(), TargetTicketID: "a", DonorTicketID: "a"}, types.ErrSameTicket},
		{"split zero", &types.MsgSplit{Owner: alice.String(), TicketID: "a"}, types.ErrInvalidAmount},
		{"transfer bad recipient", &types.MsgTransferTicket{Owner: alice.String(), TicketID: "a", Recipient: "x"}, types.ErrInvalidAddress},
		{"withdraw ok", &types.MsgWithdraw{Owner: alice.String(), TicketID: "a"}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestHandlerRoutesMessages(t *testing.T) {
	f := setupKeeper(t)
	handler := NewHandler(f.keeper)

	res, err := handler(f.ctx, &types.MsgCreateVault{Creator: alice.String(), Denom: testDenom})
	require.NoError(t, err)

	var created types.MsgCreateVaultResponse
	require.NoError(t, json.Unmarshal(res.Data, &created))
	require.NotEmpty(t, created.VaultID)
	require.Len(t, res.Events, 1)
	require.Equal(t, types.EventTypeCreateVault, res.Events[0].Type)

	res, err = handler(f.ctx, &types.MsgDeposit{Depositor: alice.String(), VaultID: created.VaultID, Amount: 50})
	require.NoError(t, err)

	var dep types.MsgDepositResponse
	require.NoError(t, json.Unmarshal(res.Data, &dep))
	require.Equal(t, uint64(50), dep.Shares)

	_, err = handler(f.ctx, &types.MsgDeposit{Depositor: alice.String(), VaultID: created.VaultID, Amount: 0})
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestQueryServer(t *testing.T) {
	f := setupKeeper(t)
	q := NewQueryServerImpl(f.keeper)
	pool := f.createVault(t, 0)
	ticket := f.deposit(t, alice, pool.PoolID, 2_000)
	f.deposit(t, bob, pool.PoolID, 1_000)

	got, err := q.Vault(f.ctx, pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(3_000), got.Balance)

	_, err = q.Vault(f.ctx, "missing")
	require.ErrorIs(t, err, types.ErrVaultNotFound)

	vaults, total, err := q.Vaults(f.ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(1), total)
	require.Len(t, vaults, 1)

	value, err := q.TicketValue(f.ctx, ticket.TicketID)
	require.NoError(t, err)
	require.Equal(t, uint64(2_000), value)

	rate, err := q.ExchangeRate(f.ctx, pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), rate)

	owned, err := q.OwnerTickets(f.ctx, alice.String())
	require.NoError(t, err)
	require.Len(t, owned, 1)
}
