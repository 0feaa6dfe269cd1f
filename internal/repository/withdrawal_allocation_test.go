package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func candidatesWithPayouts(payouts ...float64) []allocationCandidate {
	candidates := make([]allocationCandidate, len(payouts))
	for i, p := range payouts {
		candidates[i] = allocationCandidate{ID: uuid.New(), SellerPayout: p}
	}
	return candidates
}

func TestPickAllocation_OldestFirst(t *testing.T) {
	candidates := candidatesWithPayouts(1.0, 2.0, 3.0)

	picked, ok := pickAllocation(candidates, 2.5)

	assert.True(t, ok)
	assert.Equal(t, []uuid.UUID{candidates[0].ID, candidates[1].ID}, picked)
}

func TestPickAllocation_LastOrderIncludedWhole(t *testing.T) {
	candidates := candidatesWithPayouts(1.0, 5.0)

	// Сумма второго заказа перекрывает запрос с запасом, но заказ неделим.
	picked, ok := pickAllocation(candidates, 1.5)

	assert.True(t, ok)
	assert.Len(t, picked, 2)
}

func TestPickAllocation_ExactMatch(t *testing.T) {
	candidates := candidatesWithPayouts(1.0, 2.0)

	picked, ok := pickAllocation(candidates, 3.0)

	assert.True(t, ok)
	assert.Len(t, picked, 2)
}

func TestPickAllocation_Insufficient(t *testing.T) {
	candidates := candidatesWithPayouts(1.0, 2.0)

	picked, ok := pickAllocation(candidates, 3.5)

	assert.False(t, ok)
	assert.Nil(t, picked)
}

func TestPickAllocation_NoCandidates(t *testing.T) {
	picked, ok := pickAllocation(nil, 1.0)

	assert.False(t, ok)
	assert.Nil(t, picked)
}

func TestPickAllocation_SingleOrderCovers(t *testing.T) {
	candidates := candidatesWithPayouts(10.0, 1.0)

	picked, ok := pickAllocation(candidates, 4.0)

	assert.True(t, ok)
	assert.Equal(t, []uuid.UUID{candidates[0].ID}, picked)
}
