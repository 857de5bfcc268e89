package types

import (
	"errors"
	stdmath "math"
	"testing"

	"github.com/openalpha/custody/pkg/fixedpoint"
)

func TestSharesForDeposit(t *testing.T) {
	testCases := []struct {
		name     string
		pool     Pool
		amount   uint64
		expected uint64
		err      error
	}{
		{"bootstrap mints one to one", Pool{}, 1_000, 1_000, nil},
		{"drained balance mints one to one", Pool{TotalShares: 500}, 100, 100, nil},
		{"below minimum", Pool{MinDeposit: 10}, 9, 0, ErrBelowMinimumDeposit},
		{"zero into empty pool", Pool{}, 0, 0, ErrZeroSharesMinted},
		{"proportional", Pool{Balance: 2_000, TotalShares: 1_000}, 500, 250, nil},
		{"floors toward the pool", Pool{Balance: 3, TotalShares: 2}, 2, 1, nil},
		{"rounds to zero", Pool{Balance: 1_000, TotalShares: 1}, 999, 0, ErrZeroSharesMinted},
		{"overflow", Pool{Balance: 1, TotalShares: stdmath.MaxUint64}, 2, 0, fixedpoint.ErrOverflow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.pool.SharesForDeposit(tc.amount)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %d shares, got %d", tc.expected, got)
			}
		})
	}
}

func TestWithdrawalForShares(t *testing.T) {
	testCases := []struct {
		name     string
		pool     Pool
		shares   uint64
		expected uint64
		err      error
	}{
		{"nothing from nothing", Pool{}, 0, 0, nil},
		{"shares against empty pool", Pool{}, 5, 0, ErrPoolDrained},
		{"proportional", Pool{Balance: 2_000, TotalShares: 1_000}, 250, 500, nil},
		{"floors toward the pool", Pool{Balance: 10, TotalShares: 3}, 1, 3, nil},
		{"dust redeems for nothing", Pool{Balance: 1, TotalShares: 1_000}, 1, 0, ErrPoolDrained},
		{"all shares take the balance", Pool{Balance: 999, TotalShares: 7}, 7, 999, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.pool.WithdrawalForShares(tc.shares)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestExchangeRate(t *testing.T) {
	testCases := []struct {
		pool     Pool
		expected uint64
	}{
		{Pool{}, fixedpoint.Scale9},
		{Pool{Balance: 2_000, TotalShares: 1_000}, 2 * fixedpoint.Scale9},
		{Pool{Balance: 1, TotalShares: 3}, 333_333_333},
		{Pool{Balance: stdmath.MaxUint64, TotalShares: 1}, stdmath.MaxUint64},
	}

	for _, tc := range testCases {
		if got := tc.pool.ExchangeRate(); got != tc.expected {
			t.Errorf("ExchangeRate(%d/%d): expected %d, got %d", tc.pool.Balance, tc.pool.TotalShares, tc.expected, got)
		}
	}
}
