package types

import (
	"cosmossdk.io/math"

	"github.com/openalpha/custody/pkg/fixedpoint"
)

var accScale = math.NewUint(fixedpoint.Scale18)

// ProjectAccumulator returns what AccRewardPerShare would be at now without
// touching the pool. Nothing accrues while the pool is empty or when now does
// not lie after LastUpdateTime.
func (p *Pool) ProjectAccumulator(now uint64) math.Uint {
	if p.TotalStaked == 0 || now <= p.LastUpdateTime {
		return p.AccRewardPerShare
	}
	elapsed := fixedpoint.ElapsedSeconds(p.LastUpdateTime, now)
	reward := math.NewUint(elapsed).Mul(math.NewUint(p.RewardPerSecond))
	increment := reward.Mul(accScale).Quo(math.NewUint(p.TotalStaked))
	return p.AccRewardPerShare.Add(increment)
}

// UpdateAccumulator brings the accumulator up to now and moves
// LastUpdateTime forward. It must run before any change to TotalStaked or
// to a position's reward debt.
func (p *Pool) UpdateAccumulator(now uint64) {
	if now <= p.LastUpdateTime {
		return
	}
	p.AccRewardPerShare = p.ProjectAccumulator(now)
	p.LastUpdateTime = now
}

// RewardDebtFor returns floor(amount * acc / 1e18), the entitlement of
// amount staked units at accumulator value acc.
func RewardDebtFor(amount uint64, acc math.Uint) math.Uint {
	return math.NewUint(amount).Mul(acc).Quo(accScale)
}

// Owed returns the unpaid reward of position at accumulator value acc
func (pos *Position) Owed(acc math.Uint) (uint64, error) {
	return fixedpoint.ToUint64(fixedpoint.SatSub(RewardDebtFor(pos.Amount, acc), pos.RewardDebt))
}

// PendingReward returns what position could claim at now
func (p *Pool) PendingReward(pos *Position, now uint64) (uint64, error) {
	return pos.Owed(p.ProjectAccumulator(now))
}
