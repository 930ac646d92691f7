package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumMacros(t *testing.T) {
	items := []PlanItem{
		{Macros: Macros{Calories: 300, Protein: 20, Carbs: 30, Fat: 10, Fiber: 5}},
		{Macros: Macros{Calories: 500, Protein: 35, Carbs: 45, Fat: 18, Fiber: 8}},
		{Macros: Macros{Calories: 400, Protein: 25, Carbs: 40, Fat: 15, Fiber: 6}},
	}

	totals := SumMacros(items)
	assert.Equal(t, Macros{Calories: 1200, Protein: 80, Carbs: 115, Fat: 43, Fiber: 19}, totals)
}

func TestSumMacrosEmpty(t *testing.T) {
	assert.Equal(t, Macros{}, SumMacros(nil))
	assert.Equal(t, Macros{}, SumMacros([]PlanItem{}))
}
