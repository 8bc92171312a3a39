package yard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRisk_Buckets(t *testing.T) {
	tests := []struct {
		number int
		slot   SlotPosition
		want   Risk
	}{
		{3, SlotA, RiskMedium},
		{3, SlotB, RiskHigh},
		{6, SlotA, RiskMedium},
		{6, SlotB, RiskHigh},
		{9, SlotA, RiskLow},
		{9, SlotB, RiskMedium},
		{12, SlotA, RiskLow},
		{12, SlotB, RiskMedium},
		{1, SlotA, RiskMedium},
		{1, SlotB, RiskHigh},
		{13, SlotA, RiskLow},
		{13, SlotB, RiskLow},
	}
	for _, tt := range tests {
		got := DeriveRisk(tt.number, tt.slot)
		assert.Equal(t, tt.want, got, "siding %d slot %s", tt.number, tt.slot)
	}
}

func TestDeriveRisk_FrontNeverRiskierThanRear(t *testing.T) {
	rank := map[Risk]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2}
	for n := 1; n <= TopSidingNumber; n++ {
		a := DeriveRisk(n, SlotA)
		b := DeriveRisk(n, SlotB)
		assert.LessOrEqual(t, rank[a], rank[b], "siding %d", n)
	}
}

func TestDeriveRisk_FallsWithSidingNumber(t *testing.T) {
	rank := map[Risk]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2}
	for _, slot := range []SlotPosition{SlotA, SlotB} {
		prev := rank[DeriveRisk(1, slot)]
		for n := 2; n <= TopSidingNumber; n++ {
			cur := rank[DeriveRisk(n, slot)]
			assert.LessOrEqual(t, cur, prev, "siding %d slot %s", n, slot)
			prev = cur
		}
	}
}

func TestTrain_HasFailure(t *testing.T) {
	tr := &Train{Failures: []string{"brakes", FailureWheelAlignment}}
	assert.True(t, tr.HasFailure("brakes"))
	assert.True(t, tr.HasFailure(FailureWheelAlignment))
	assert.False(t, tr.HasFailure("doors"))
	assert.False(t, (&Train{}).HasFailure("brakes"))
}

func TestTrain_CloneIsDeep(t *testing.T) {
	tr := &Train{
		Number:   "T-1",
		JobCard:  []Task{{Name: "grease axles"}},
		Failures: []string{"brakes"},
	}
	c := tr.Clone()
	c.JobCard[0].Done = true
	c.Failures[0] = "mutated"

	assert.False(t, tr.JobCard[0].Done)
	assert.Equal(t, "brakes", tr.Failures[0])
}
