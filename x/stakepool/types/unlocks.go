package types

import (
	stdmath "math"

	"github.com/huandu/skiplist"

	"github.com/openalpha/custody/pkg/fixedpoint"
)

// unlockKey orders positions by unlock time, then by position id
type unlockKey struct {
	unlockTime uint64
	positionID string
}

// unlockOrder is the skiplist comparator for unlockKey
type unlockOrder struct{}

func (unlockOrder) Compare(lhs, rhs interface{}) int {
	l := lhs.(unlockKey)
	r := rhs.(unlockKey)
	switch {
	case l.unlockTime < r.unlockTime:
		return -1
	case l.unlockTime > r.unlockTime:
		return 1
	case l.positionID < r.positionID:
		return -1
	case l.positionID > r.positionID:
		return 1
	}
	return 0
}

func (unlockOrder) CalcScore(key interface{}) float64 {
	return float64(key.(unlockKey).unlockTime)
}

// UnlockSchedule lists positions in the order their locks expire
type UnlockSchedule struct {
	list *skiplist.SkipList
}

// NewUnlockSchedule indexes positions by unlock time
func NewUnlockSchedule(positions []*Position) *UnlockSchedule {
	schedule := &UnlockSchedule{list: skiplist.New(unlockOrder{})}
	for _, pos := range positions {
		schedule.list.Set(unlockKey{unlockTime: pos.UnlockTime, positionID: pos.PositionID}, pos)
	}
	return schedule
}

// Len returns the number of scheduled positions
func (s *UnlockSchedule) Len() int {
	return s.list.Len()
}

// Locked returns the positions still locked at now, soonest unlock first. A
// zero limit returns all of them.
func (s *UnlockSchedule) Locked(now uint64, limit int) []*Position {
	positions := []*Position{}
	for elem := s.firstLocked(now); elem != nil; elem = elem.Next() {
		positions = append(positions, elem.Value.(*Position))
		if limit > 0 && len(positions) >= limit {
			break
		}
	}
	return positions
}

// LockedAmount sums the principal still locked at now
func (s *UnlockSchedule) LockedAmount(now uint64) (uint64, error) {
	var total uint64
	for _, pos := range s.Locked(now, 0) {
		var err error
		if total, err = fixedpoint.AddChecked(total, pos.Amount); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// NextUnlock returns the first position to unlock after now, or nil when
// every position is already unlocked
func (s *UnlockSchedule) NextUnlock(now uint64) *Position {
	elem := s.firstLocked(now)
	if elem == nil {
		return nil
	}
	return elem.Value.(*Position)
}

// firstLocked returns the first element whose unlock time is after now
func (s *UnlockSchedule) firstLocked(now uint64) *skiplist.Element {
	if now == stdmath.MaxUint64 {
		return nil
	}
	return s.list.Find(unlockKey{unlockTime: now + 1})
}
