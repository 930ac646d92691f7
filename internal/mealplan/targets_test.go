package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBMRMale(t *testing.T) {
	b := Biometrics{WeightKg: 70, HeightCm: 175, Age: 30, Sex: SexMale}
	// 10*70 + 6.25*175 - 5*30 + 5
	assert.InDelta(t, 1648.75, BMR(b), 0.001)
}

func TestBMRFemale(t *testing.T) {
	b := Biometrics{WeightKg: 60, HeightCm: 165, Age: 25, Sex: SexFemale}
	// 10*60 + 6.25*165 - 5*25 - 161
	assert.InDelta(t, 1345.25, BMR(b), 0.001)
}

func TestCalculateTargetsPerGoal(t *testing.T) {
	b := Biometrics{WeightKg: 70, HeightCm: 175, Age: 30, Sex: SexMale}
	// TDEE = 1648.75 * 1.5 = 2473.125

	cases := []struct {
		goal     Goal
		expected int
	}{
		{GoalMuscleBuilding, 2773},
		{GoalWeightLoss, 1973},
		{GoalGutHealth, 2473},
		{GoalMentalPerformance, 2473},
		{GoalGeneralHealth, 2473},
	}
	for _, tc := range cases {
		t.Run(string(tc.goal), func(t *testing.T) {
			targets := CalculateTargets(b, tc.goal)
			assert.Equal(t, tc.expected, targets.TargetCalories)
			assert.InDelta(t, 2473.125, targets.TDEE, 0.001)
		})
	}
}

func TestGoalContextForUnknownGoalFallsBack(t *testing.T) {
	ctx := GoalContextFor(Goal("marathon_prep"))
	assert.Equal(t, defaultGoalContext, ctx)

	// Unknown goals still produce a usable target with no offset applied.
	b := Biometrics{WeightKg: 70, HeightCm: 175, Age: 30, Sex: SexMale}
	targets := CalculateTargets(b, Goal("marathon_prep"))
	assert.Equal(t, 2473, targets.TargetCalories)
}
