package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Custody Metrics Collector
// Counters are fed by keepers after each committed operation, gauges are
// refreshed from pool state by the EndBlocker.

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Flow directions for vault and lending value movement
const (
	FlowIn  = "in"
	FlowOut = "out"
)

// Collector holds all custody metrics
type Collector struct {
	// Vault metrics
	VaultFlowsTotal  *prometheus.CounterVec
	VaultFlowValue   *prometheus.CounterVec
	VaultBalance     *prometheus.GaugeVec
	VaultTotalShares *prometheus.GaugeVec

	// Staking metrics
	StakesTotal        *prometheus.CounterVec
	StakedValue        *prometheus.CounterVec
	RewardsPaid        *prometheus.CounterVec
	RewardsSkipped     *prometheus.CounterVec
	StakePoolTotal     *prometheus.GaugeVec
	StakeRewardBalance *prometheus.GaugeVec

	// Lending metrics
	LoansTotal        *prometheus.CounterVec
	LoanValue         *prometheus.CounterVec
	LiquidationsTotal *prometheus.CounterVec
	CollateralSeized  *prometheus.CounterVec
	LendingLiquidity  *prometheus.GaugeVec
	LendingBorrowed   *prometheus.GaugeVec
	LiquidatableLoans *prometheus.GaugeVec

	// Operation metrics
	RejectionsTotal *prometheus.CounterVec
	EndBlockLatency prometheus.Histogram
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Vault metrics
	c.VaultFlowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "vault",
			Name:      "flows_total",
			Help:      "Number of deposits and withdrawals",
		},
		[]string{"vault_id", "direction"},
	)

	c.VaultFlowValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "vault",
			Name:      "flow_value",
			Help:      "Value deposited into or withdrawn from vaults",
		},
		[]string{"vault_id", "direction"},
	)

	c.VaultBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "custody",
			Subsystem: "vault",
			Name:      "balance",
			Help:      "Pooled balance held by a vault",
		},
		[]string{"vault_id"},
	)

	c.VaultTotalShares = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "custody",
			Subsystem: "vault",
			Name:      "total_shares",
			Help:      "Outstanding shares of a vault",
		},
		[]string{"vault_id"},
	)

	// Staking metrics
	c.StakesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "stakepool",
			Name:      "actions_total",
			Help:      "Number of stake, claim and unstake operations",
		},
		[]string{"pool_id", "action"},
	)

	c.StakedValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "stakepool",
			Name:      "principal_value",
			Help:      "Principal staked into or returned from pools",
		},
		[]string{"pool_id", "direction"},
	)

	c.RewardsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "stakepool",
			Name:      "rewards_paid",
			Help:      "Rewards paid out by claims and unstakes",
		},
		[]string{"pool_id"},
	)

	c.RewardsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "stakepool",
			Name:      "rewards_skipped",
			Help:      "Rewards an unstake could not pay because the reward balance was short",
		},
		[]string{"pool_id"},
	)

	c.StakePoolTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "custody",
			Subsystem: "stakepool",
			Name:      "total_staked",
			Help:      "Total principal staked in a pool",
		},
		[]string{"pool_id"},
	)

	c.StakeRewardBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "custody",
			Subsystem: "stakepool",
			Name:      "reward_balance",
			Help:      "Unpaid reward funding held by a pool",
		},
		[]string{"pool_id"},
	)

	// Lending metrics
	c.LoansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "lending",
			Name:      "loans_total",
			Help:      "Number of borrows and repayments",
		},
		[]string{"pool_id", "action"},
	)

	c.LoanValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "lending",
			Name:      "loan_value",
			Help:      "Value borrowed (out) and repaid including interest (in)",
		},
		[]string{"pool_id", "direction"},
	)

	c.LiquidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "lending",
			Name:      "liquidations_total",
			Help:      "Number of liquidated loans",
		},
		[]string{"pool_id"},
	)

	c.CollateralSeized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "lending",
			Name:      "collateral_seized",
			Help:      "Collateral awarded to liquidators",
		},
		[]string{"pool_id"},
	)

	c.LendingLiquidity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "custody",
			Subsystem: "lending",
			Name:      "available_liquidity",
			Help:      "Liquidity available to borrowers",
		},
		[]string{"pool_id"},
	)

	c.LendingBorrowed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "custody",
			Subsystem: "lending",
			Name:      "total_borrowed",
			Help:      "Outstanding principal of a pool",
		},
		[]string{"pool_id"},
	)

	c.LiquidatableLoans = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "custody",
			Subsystem: "lending",
			Name:      "liquidatable_loans",
			Help:      "Loans whose health factor is below 1.0 at the last block",
		},
		[]string{"pool_id"},
	)

	// Operation metrics
	c.RejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "ops",
			Name:      "rejections_total",
			Help:      "Operations aborted by a precondition failure",
		},
		[]string{"module", "operation", "codespace", "code"},
	)

	c.EndBlockLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "custody",
			Subsystem: "block",
			Name:      "endblock_latency_ms",
			Help:      "EndBlocker gauge refresh latency in milliseconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		},
	)

	return c
}

// Register registers every metric with reg
func (c *Collector) Register(reg prometheus.Registerer) error {
	all := []prometheus.Collector{
		c.VaultFlowsTotal,
		c.VaultFlowValue,
		c.VaultBalance,
		c.VaultTotalShares,
		c.StakesTotal,
		c.StakedValue,
		c.RewardsPaid,
		c.RewardsSkipped,
		c.StakePoolTotal,
		c.StakeRewardBalance,
		c.LoansTotal,
		c.LoanValue,
		c.LiquidationsTotal,
		c.CollateralSeized,
		c.LendingLiquidity,
		c.LendingBorrowed,
		c.LiquidatableLoans,
		c.RejectionsTotal,
		c.EndBlockLatency,
	}
	for _, m := range all {
		if err := reg.Register(m); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ============ Recording Helpers ============

// RecordVaultFlow records a deposit (FlowIn) or withdrawal (FlowOut)
func (c *Collector) RecordVaultFlow(vaultID, direction string, amount uint64) {
	c.VaultFlowsTotal.WithLabelValues(vaultID, direction).Inc()
	c.VaultFlowValue.WithLabelValues(vaultID, direction).Add(float64(amount))
}

// RecordVaultState sets the vault gauges
func (c *Collector) RecordVaultState(vaultID string, balance, totalShares uint64) {
	c.VaultBalance.WithLabelValues(vaultID).Set(float64(balance))
	c.VaultTotalShares.WithLabelValues(vaultID).Set(float64(totalShares))
}

// RecordStakeAction records a stake, claim or unstake
func (c *Collector) RecordStakeAction(poolID, action string) {
	c.StakesTotal.WithLabelValues(poolID, action).Inc()
}

// RecordPrincipal records principal entering (FlowIn) or leaving (FlowOut) a pool
func (c *Collector) RecordPrincipal(poolID, direction string, amount uint64) {
	c.StakedValue.WithLabelValues(poolID, direction).Add(float64(amount))
}

// RecordRewards records paid and skipped rewards
func (c *Collector) RecordRewards(poolID string, paid, skipped uint64) {
	if paid > 0 {
		c.RewardsPaid.WithLabelValues(poolID).Add(float64(paid))
	}
	if skipped > 0 {
		c.RewardsSkipped.WithLabelValues(poolID).Add(float64(skipped))
	}
}

// RecordStakePoolState sets the staking gauges
func (c *Collector) RecordStakePoolState(poolID string, totalStaked, rewardBalance uint64) {
	c.StakePoolTotal.WithLabelValues(poolID).Set(float64(totalStaked))
	c.StakeRewardBalance.WithLabelValues(poolID).Set(float64(rewardBalance))
}

// RecordLoan records a borrow (FlowOut) or repayment (FlowIn)
func (c *Collector) RecordLoan(poolID, action, direction string, amount uint64) {
	c.LoansTotal.WithLabelValues(poolID, action).Inc()
	c.LoanValue.WithLabelValues(poolID, direction).Add(float64(amount))
}

// RecordLiquidation records a liquidation event
func (c *Collector) RecordLiquidation(poolID string, debt, seized uint64) {
	c.LiquidationsTotal.WithLabelValues(poolID).Inc()
	c.LoanValue.WithLabelValues(poolID, FlowIn).Add(float64(debt))
	c.CollateralSeized.WithLabelValues(poolID).Add(float64(seized))
}

// RecordLendingPoolState sets the lending gauges
func (c *Collector) RecordLendingPoolState(poolID string, available, borrowed uint64, liquidatable int) {
	c.LendingLiquidity.WithLabelValues(poolID).Set(float64(available))
	c.LendingBorrowed.WithLabelValues(poolID).Set(float64(borrowed))
	if liquidatable >= 0 {
		c.LiquidatableLoans.WithLabelValues(poolID).Set(float64(liquidatable))
	}
}

// RecordRejection records an aborted operation
func (c *Collector) RecordRejection(module, operation, codespace string, code uint32) {
	c.RejectionsTotal.WithLabelValues(module, operation, codespace, strconv.FormatUint(uint64(code), 10)).Inc()
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
