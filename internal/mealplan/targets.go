package mealplan

import "math"

// Activity multiplier applied to BMR. The app assumes moderate activity; an
// activity-level field on the profile is a possible followup.
const activityFactor = 1.5

// Calorie offsets applied to TDEE per goal.
const (
	muscleBuildingSurplus = 300
	weightLossDeficit     = 500
)

// Targets is the daily calorie envelope plus the qualitative goal guidance
// that gets rendered into prompts.
type Targets struct {
	BMR            float64
	TDEE           float64
	TargetCalories int
	Goal           GoalContext
}

// GoalContext is the static per-goal guidance used only for prompt text.
type GoalContext struct {
	Name         string
	Focus        string
	MacroSplit   string
	SnackPurpose string
}

var goalContexts = map[Goal]GoalContext{
	GoalMuscleBuilding: {
		Name:         "Muscle Building",
		Focus:        "High protein intake (1.6-2.2g per kg bodyweight), adequate carbs for energy, moderate healthy fats",
		MacroSplit:   "30% protein, 40% carbs, 30% fat",
		SnackPurpose: "Protein-dense fuel that supports muscle protein synthesis between meals",
	},
	GoalWeightLoss: {
		Name:         "Weight Loss",
		Focus:        "High protein to preserve muscle, moderate carbs, healthy fats, high fiber for satiety",
		MacroSplit:   "35% protein, 35% carbs, 30% fat",
		SnackPurpose: "High-satiety, low-calorie option that bridges meals without breaking the deficit",
	},
	GoalGutHealth: {
		Name:         "Gut Health",
		Focus:        "High fiber from diverse sources, fermented foods, prebiotics and probiotics, anti-inflammatory foods",
		MacroSplit:   "20% protein, 50% carbs (fiber-rich), 30% fat",
		SnackPurpose: "Fiber-rich or fermented snack feeding the gut microbiome",
	},
	GoalMentalPerformance: {
		Name:         "Mental Performance",
		Focus:        "Omega-3 fatty acids, B vitamins, antioxidants, complex carbs for stable energy, anti-inflammatory foods",
		MacroSplit:   "25% protein, 45% carbs (complex), 30% fat (omega-3 rich)",
		SnackPurpose: "Steady-energy snack avoiding blood sugar spikes and crashes",
	},
	GoalGeneralHealth: {
		Name:         "General Health",
		Focus:        "Balanced macros, variety of whole foods, adequate micronutrients, anti-inflammatory foods",
		MacroSplit:   "25% protein, 45% carbs, 30% fat",
		SnackPurpose: "Balanced whole-food snack rounding out the day's nutrition",
	},
}

// fallback for unrecognized goals; generation still proceeds.
var defaultGoalContext = GoalContext{
	Name:         "General Health",
	Focus:        "Balanced nutrition with whole foods",
	MacroSplit:   "25% protein, 45% carbs, 30% fat",
	SnackPurpose: "Balanced whole-food snack",
}

// GoalContextFor returns the prompt guidance for a goal, falling back to the
// general-health entry for unknown values.
func GoalContextFor(goal Goal) GoalContext {
	if ctx, ok := goalContexts[goal]; ok {
		return ctx
	}
	return defaultGoalContext
}

// BMR computes the Basal Metabolic Rate via the Mifflin-St Jeor formula.
// Defined for all valid biometrics; no error conditions.
func BMR(b Biometrics) float64 {
	base := 10*b.WeightKg + 6.25*b.HeightCm - 5*float64(b.Age)
	if b.Sex == SexMale {
		return base + 5
	}
	return base - 161
}

// CalculateTargets derives the daily calorie target from biometrics and goal:
// round(BMR x 1.5) shifted by the goal's fixed offset.
func CalculateTargets(b Biometrics, goal Goal) Targets {
	bmr := BMR(b)
	tdee := bmr * activityFactor

	calories := tdee
	switch goal {
	case GoalMuscleBuilding:
		calories += muscleBuildingSurplus
	case GoalWeightLoss:
		calories -= weightLossDeficit
	}

	return Targets{
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: int(math.Round(calories)),
		Goal:           GoalContextFor(goal),
	}
}
