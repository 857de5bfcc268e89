package keeper

import (
	"encoding/json"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/custody/metrics"
	"github.com/openalpha/custody/x/lending/types"
)

func TestMsgServerLoanLifecycle(t *testing.T) {
	f := setupKeeper(t)
	ms := NewMsgServerImpl(f.keeper)

	created, err := ms.CreatePool(f.ctx, &types.MsgCreatePool{Creator: supplier.String(), Denom: denom})
	require.NoError(t, err)

	supplied, err := ms.SupplyLiquidity(f.ctx, &types.MsgSupplyLiquidity{Supplier: supplier.String(), PoolID: created.PoolID, Amount: 1_000_000})
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), supplied.AvailableLiquidity)

	borrowed, err := ms.Borrow(f.ctx, &types.MsgBorrow{Borrower: alice.String(), PoolID: created.PoolID, Collateral: 400_000, Amount: 300_000})
	require.NoError(t, err)
	require.NotEmpty(t, borrowed.PositionID)

	f.advance(yearMs / 2)

	repaid, err := ms.Repay(f.ctx, &types.MsgRepay{Borrower: alice.String(), PositionID: borrowed.PositionID, Payment: 400_000})
	require.NoError(t, err)
	require.Equal(t, uint64(315_000), repaid.Debt)
	require.Equal(t, uint64(85_000), repaid.Refund)
	require.Equal(t, uint64(400_000), repaid.Collateral)
	f.requireConserved(t)
	f.requireBacked(t)
}

func TestMsgServerRejectionLeavesNoTrace(t *testing.T) {
	f := setupKeeper(t)
	ms := NewMsgServerImpl(f.keeper)
	pool := f.fundedPool(t, 1_000_000)

	rejections := metrics.GetCollector().RejectionsTotal.WithLabelValues(
		types.ModuleName, types.TypeMsgBorrow, types.ModuleName, "3")
	before := promtestutil.ToFloat64(rejections)
	eventsBefore := len(f.ctx.EventManager().Events())

	_, err := ms.Borrow(f.ctx, &types.MsgBorrow{Borrower: alice.String(), PoolID: pool.PoolID, Collateral: 1_000_000, Amount: 750_001})
	require.ErrorIs(t, err, types.ErrExceedsMaxBorrow)

	require.Equal(t, before+1, promtestutil.ToFloat64(rejections))
	require.Len(t, f.ctx.EventManager().Events(), eventsBefore)
	require.Empty(t, f.keeper.GetBorrowerPositions(f.ctx, alice.String()))
	require.Equal(t, uint64(1_000_000), f.keeper.GetPool(f.ctx, pool.PoolID).AvailableLiquidity)
}

func TestMsgValidateBasic(t *testing.T) {
	testCases := []struct {
		name string
		msg  interface{ ValidateBasic() error }
		err  error
	}{
		{"create bad denom", &types.MsgCreatePool{Creator: alice.String(), Denom: "!"}, types.ErrInvalidDenom},
		{"supply zero", &types.MsgSupplyLiquidity{Supplier: alice.String(), PoolID: "p"}, types.ErrInvalidAmount},
		{"borrow bad address", &types.MsgBorrow{Borrower: "x", PoolID: "p", Collateral: 1, Amount: 1}, types.ErrInvalidAddress},
		{"borrow zero collateral", &types.MsgBorrow{Borrower: alice.String(), PoolID: "p", Amount: 1}, types.ErrInsufficientCollateral},
		{"borrow zero amount", &types.MsgBorrow{Borrower: alice.String(), PoolID: "p", Collateral: 1}, types.ErrInvalidAmount},
		{"repay missing position", &types.MsgRepay{Borrower: alice.String(), Payment: 1}, types.ErrPositionNotFound},
		{"liquidate zero payment", &types.MsgLiquidate{Liquidator: bob.String(), PositionID: "l"}, types.ErrInvalidAmount},
		{"repay ok", &types.MsgRepay{Borrower: alice.String(), PositionID: "l", Payment: 1}, nil},
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

func TestHandlerLiquidate(t *testing.T) {
	f := setupKeeper(t)
	handler := NewHandler(f.keeper)
	pool := f.fundedPool(t, 5_000_000)
	pos := f.openLoan(t, pool.PoolID, 1_000_000, 900_000)

	res, err := handler(f.ctx, &types.MsgLiquidate{Liquidator: bob.String(), PositionID: pos.PositionID, Payment: 900_000})
	require.NoError(t, err)

	var liquidated types.MsgLiquidateResponse
	require.NoError(t, json.Unmarshal(res.Data, &liquidated))
	require.Equal(t, uint64(900_000), liquidated.Debt)
	require.Equal(t, uint64(945_000), liquidated.Seized)
	require.Equal(t, uint64(55_000), liquidated.Remainder)
	require.Len(t, res.Events, 1)
	require.Equal(t, types.EventTypeLiquidate, res.Events[0].Type)

	_, err = handler(f.ctx, &types.MsgRepay{Borrower: alice.String(), PositionID: pos.PositionID, Payment: 1})
	require.ErrorIs(t, err, types.ErrPositionNotFound)
}

func TestEndBlockerCountsLiquidatable(t *testing.T) {
	f := setupKeeper(t)
	pool := f.fundedPool(t, 5_000_000)
	f.openLoan(t, pool.PoolID, 1_000_000, 900_000)

	f.keeper.EndBlocker(f.ctx)

	collector := metrics.GetCollector()
	require.Equal(t, float64(1), promtestutil.ToFloat64(collector.LiquidatableLoans.WithLabelValues(pool.PoolID)))
	require.Equal(t, float64(900_000), promtestutil.ToFloat64(collector.LendingBorrowed.WithLabelValues(pool.PoolID)))
	require.Equal(t, float64(4_100_000), promtestutil.ToFloat64(collector.LendingLiquidity.WithLabelValues(pool.PoolID)))
}
