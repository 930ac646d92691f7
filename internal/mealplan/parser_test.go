package mealplan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMealJSON = `{
	"type": "breakfast",
	"name": "Greek Yogurt Bowl",
	"ingredients": [{"name": "greek yogurt", "quantity": "200g"}, {"name": "blueberries", "quantity": "1 cup"}],
	"instructions": "Combine yogurt and blueberries in a bowl.",
	"macros": {"calories": 320, "protein": 24, "carbs": 38, "fat": 8, "fiber": 4},
	"nutritional_reasoning": "Protein-rich start to the day.",
	"prep_time_minutes": 5
}`

func TestExtractJSONFenced(t *testing.T) {
	raw := "```json\n{\"name\": \"test\"}\n```"
	text, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "test"}`, text)
}

func TestExtractJSONBareFence(t *testing.T) {
	raw := "```\n{\"name\": \"test\"}\n```"
	text, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "test"}`, text)
}

func TestExtractJSONSurroundedByProse(t *testing.T) {
	raw := "Here is your meal plan:\n{\"meals\": [{\"name\": \"x\"}]}\nEnjoy!"
	text, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"meals": [{"name": "x"}]}`, text)
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	raw := `{"instructions": "serve in a bowl {optional: garnish}", "name": "x"}`
	text, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, text)
}

func TestExtractJSONRefusal(t *testing.T) {
	_, err := ExtractJSON("Sorry, I can't help with that.")
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestExtractJSONUnbalanced(t *testing.T) {
	_, err := ExtractJSON(`{"meals": [{"name": "x"}]`)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestParseItemMeal(t *testing.T) {
	item, err := ParseItem(validMealJSON, KindMeal)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, KindMeal, item.Kind)
	assert.Equal(t, MealBreakfast, item.Type)
	assert.Equal(t, "Greek Yogurt Bowl", item.Name)
	assert.Len(t, item.Ingredients, 2)
	assert.Equal(t, 5, item.PrepTimeMinutes)
	assert.Equal(t, []string{}, item.ScientificSources)
	assert.Empty(t, item.EditHistory)
}

func TestParseItemMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"name":        `{"type": "lunch", "ingredients": [], "macros": {"calories": 1}}`,
		"ingredients": `{"type": "lunch", "name": "x", "macros": {"calories": 1}}`,
		"macros":      `{"type": "lunch", "name": "x", "ingredients": []}`,
	}
	for field, raw := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := ParseItem(raw, KindMeal)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidModelOutput)

			var ioe *InvalidOutputError
			require.True(t, errors.As(err, &ioe))
			assert.Contains(t, ioe.Reason, field)
		})
	}
}

func TestParseItemNegativeMacros(t *testing.T) {
	raw := `{"type": "lunch", "name": "x", "ingredients": [], "macros": {"calories": -10}}`
	_, err := ParseItem(raw, KindMeal)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestParseItemUnknownMealType(t *testing.T) {
	raw := `{"type": "brunch", "name": "x", "ingredients": [], "macros": {"calories": 100}}`
	_, err := ParseItem(raw, KindMeal)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestParseItemSnackDefaults(t *testing.T) {
	raw := `{"type": "morning_snack", "name": "Apple and Almonds", "ingredients": [{"name": "apple", "quantity": "1"}], "macros": {"calories": 180, "protein": 5, "carbs": 22, "fat": 9, "fiber": 5}}`
	item, err := ParseItem(raw, KindSnack)
	require.NoError(t, err)

	assert.Equal(t, PortabilityPortable, item.Portability)
	assert.Equal(t, defaultSnackPrepMinutes, item.PrepTimeMinutes)
}

func TestParseItemSnackUnknownPortability(t *testing.T) {
	raw := `{"type": "morning_snack", "name": "x", "ingredients": [], "macros": {"calories": 100}, "portability": "somewhat"}`
	_, err := ParseItem(raw, KindSnack)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestParseDayPlan(t *testing.T) {
	raw := "```json\n" + `{
		"meals": [
			{"type": "breakfast", "name": "Oatmeal", "ingredients": [{"name": "oats", "quantity": "80g"}], "macros": {"calories": 300, "protein": 10, "carbs": 50, "fat": 6, "fiber": 8}},
			{"type": "lunch", "name": "Chicken Salad", "ingredients": [{"name": "chicken", "quantity": "150g"}], "macros": {"calories": 500, "protein": 40, "carbs": 20, "fat": 25, "fiber": 5}},
			{"type": "dinner", "name": "Salmon Rice", "ingredients": [{"name": "salmon", "quantity": "180g"}], "macros": {"calories": 600, "protein": 42, "carbs": 55, "fat": 22, "fiber": 3}}
		],
		"snacks": [
			{"type": "afternoon_snack", "name": "Trail Mix", "ingredients": [{"name": "nuts", "quantity": "30g"}], "macros": {"calories": 200, "protein": 6, "carbs": 15, "fat": 14, "fiber": 3}, "portability": "portable"}
		],
		"daily_totals": {"calories": 9999, "protein": 1, "carbs": 1, "fat": 1, "fiber": 1}
	}` + "\n```"

	day, err := ParseDayPlan(raw)
	require.NoError(t, err)

	assert.Len(t, day.Meals, 3)
	assert.Len(t, day.Snacks, 1)
	// Totals come from summation, not from the model's own daily_totals.
	assert.Equal(t, Macros{Calories: 1600, Protein: 98, Carbs: 140, Fat: 67, Fiber: 19}, day.DailyTotals)
	// Missing prep times filled with defaults.
	assert.Equal(t, defaultMealPrepMinutes, day.Meals[0].PrepTimeMinutes)
	assert.Equal(t, defaultSnackPrepMinutes, day.Snacks[0].PrepTimeMinutes)
}

func TestParseDayPlanRequiresMeals(t *testing.T) {
	_, err := ParseDayPlan(`{"meals": [], "snacks": []}`)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestParseDayPlanAllOrNothing(t *testing.T) {
	// Second meal is invalid; nothing from the first should survive.
	raw := `{
		"meals": [
			{"type": "breakfast", "name": "Oatmeal", "ingredients": [], "macros": {"calories": 300}},
			{"type": "lunch", "ingredients": [], "macros": {"calories": 500}}
		]
	}`
	day, err := ParseDayPlan(raw)
	assert.Nil(t, day)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}
