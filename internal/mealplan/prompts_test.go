package mealplan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSettings() Settings {
	return Settings{
		PrimaryGoal: GoalMuscleBuilding,
		Biometrics:  Biometrics{WeightKg: 70, HeightCm: 175, Age: 30, Sex: SexMale},
		CulturalCuisines: []string{
			"Mediterranean",
			"Japanese",
		},
		Location:            "Berlin, Germany",
		DietaryRestrictions: []string{"no shellfish", "lactose intolerant"},
		FoodDislikes:        []string{"cilantro"},
	}
}

func TestBuildPlanPrompt(t *testing.T) {
	s := testSettings()
	targets := CalculateTargets(s.Biometrics, s.PrimaryGoal)
	prompt := BuildPlanPrompt(s, targets)

	assert.NotEmpty(t, prompt.System)
	assert.Contains(t, prompt.User, "Target Daily Calories: ~2773 kcal")
	assert.Contains(t, prompt.User, "Muscle Building")
	assert.Contains(t, prompt.User, "Mediterranean, Japanese cuisine")
	assert.Contains(t, prompt.User, "Berlin, Germany")
	assert.Contains(t, prompt.User, "Return ONLY the JSON object")
}

func TestBuildPlanPromptRestrictionsVerbatim(t *testing.T) {
	prompt := BuildPlanPrompt(testSettings(), CalculateTargets(testSettings().Biometrics, GoalMuscleBuilding))

	assert.Contains(t, prompt.User, "CRITICAL DIETARY RESTRICTIONS (MUST BE FOLLOWED - NEVER VIOLATE):")
	assert.Contains(t, prompt.User, "- no shellfish")
	assert.Contains(t, prompt.User, "- lactose intolerant")
	assert.Contains(t, prompt.User, "FOOD PREFERENCES (avoid when possible):")
	assert.Contains(t, prompt.User, "- cilantro")
}

func TestBuildPlanPromptOmitsEmptySections(t *testing.T) {
	s := testSettings()
	s.DietaryRestrictions = nil
	s.FoodDislikes = nil
	prompt := BuildPlanPrompt(s, CalculateTargets(s.Biometrics, s.PrimaryGoal))

	assert.NotContains(t, prompt.User, "CRITICAL DIETARY RESTRICTIONS")
	assert.NotContains(t, prompt.User, "FOOD PREFERENCES")
}

func TestBuildPlanPromptCuisineFallback(t *testing.T) {
	s := testSettings()
	s.CulturalCuisines = nil
	prompt := BuildPlanPrompt(s, CalculateTargets(s.Biometrics, s.PrimaryGoal))

	assert.Contains(t, prompt.User, "international cuisine")
}

func TestBuildEditPrompt(t *testing.T) {
	item := PlanItem{
		Kind: KindMeal,
		Type: MealLunch,
		Name: "Chicken Salad",
		Ingredients: []Ingredient{
			{Name: "chicken", Quantity: "150g"},
		},
		Macros: Macros{Calories: 500, Protein: 40, Carbs: 20, Fat: 25, Fiber: 5},
	}

	prompt := BuildEditPrompt(item, "make it vegetarian", testSettings())
	assert.Contains(t, prompt.User, "Chicken Salad")
	assert.Contains(t, prompt.User, `"make it vegetarian"`)
	assert.Contains(t, prompt.User, `Keep the same type: "lunch"`)
	assert.Contains(t, prompt.User, "±100 kcal")
	assert.Contains(t, prompt.User, "CRITICAL DIETARY RESTRICTIONS")
	// Snack-only schema fields stay out of meal edit prompts.
	assert.NotContains(t, prompt.User, "ideal_timing")
}

func TestBuildEditPromptSnackSchema(t *testing.T) {
	item := PlanItem{Kind: KindSnack, Type: SnackAfternoon, Name: "Trail Mix"}
	prompt := BuildEditPrompt(item, "less sugar", testSettings())

	assert.Contains(t, prompt.User, "portability")
	assert.Contains(t, prompt.User, "ideal_timing")
}

func TestBuildSnackPrompt(t *testing.T) {
	prompt := BuildSnackPrompt(testSettings(), SnackPreferences{
		Timing:        "afternoon",
		CalorieTarget: 200,
		Preference:    "something savory",
	})

	assert.Contains(t, prompt.User, "mid-afternoon (between lunch and dinner)")
	assert.Contains(t, prompt.User, "~200 kcal")
	assert.Contains(t, prompt.User, `"type" must be EXACTLY "afternoon_snack"`)
	assert.Contains(t, prompt.User, "something savory")
	assert.Contains(t, prompt.User, "cilantro")
	assert.Contains(t, prompt.User, "no shellfish")
	// Snack purpose follows the goal.
	assert.Contains(t, prompt.User, "muscle protein synthesis")
}

func TestSnackTypeForTiming(t *testing.T) {
	assert.Equal(t, SnackMorning, SnackTypeForTiming("morning"))
	assert.Equal(t, SnackAfternoon, SnackTypeForTiming("afternoon"))
	assert.Equal(t, SnackEvening, SnackTypeForTiming("evening"))
	assert.Equal(t, SnackMorning, SnackTypeForTiming("midnight"))
}

func TestPlanOutputSchemaIsValidJSONShape(t *testing.T) {
	// The schema literal is prompt text, not strict JSON, but it must at
	// least name every enum the parser enforces.
	for _, enum := range []string{
		MealBreakfast, MealLunch, MealDinner,
		SnackMorning, SnackAfternoon, SnackEvening,
		PortabilityPortable, PortabilitySemiPortable, PortabilityNotPortable,
	} {
		assert.True(t, strings.Contains(planOutputSchema, enum), "schema missing %q", enum)
	}
}
