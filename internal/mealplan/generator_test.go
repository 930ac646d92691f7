package mealplan

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* =================================================================================
								TEST DOUBLES
=================================================================================*/

type fakeGenerator struct {
	completion string
	err        error
	calls      []struct {
		messages []ChatMessage
		opts     GenerateOptions
	}
}

func (f *fakeGenerator) Invoke(_ context.Context, messages []ChatMessage, opts GenerateOptions) (*Completion, error) {
	f.calls = append(f.calls, struct {
		messages []ChatMessage
		opts     GenerateOptions
	}{messages, opts})
	if f.err != nil {
		return nil, f.err
	}
	return &Completion{Content: f.completion, Model: "test-model"}, nil
}

type fakeSearcher struct {
	configured bool
	results    []SearchResult
	err        error
	queries    []string
}

func (f *fakeSearcher) Configured() bool { return f.configured }

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

const hedgedPlanCompletion = `{
	"meals": [
		{"type": "breakfast", "name": "Oatmeal", "ingredients": [{"name": "oats", "quantity": "80g"}], "macros": {"calories": 300, "protein": 10, "carbs": 50, "fat": 6, "fiber": 8}, "nutritional_reasoning": "Oats may help lower cholesterol."},
		{"type": "lunch", "name": "Chicken Salad", "ingredients": [{"name": "chicken", "quantity": "150g"}], "macros": {"calories": 500, "protein": 40, "carbs": 20, "fat": 25, "fiber": 5}, "nutritional_reasoning": "Lean protein for recovery."},
		{"type": "dinner", "name": "Salmon Rice", "ingredients": [{"name": "salmon", "quantity": "180g"}], "macros": {"calories": 600, "protein": 42, "carbs": 55, "fat": 22, "fiber": 3}, "nutritional_reasoning": "Research indicates omega-3s support brain health."}
	],
	"snacks": []
}`

/* =================================================================================
								PIPELINE
=================================================================================*/

func TestGenerateDayPlan(t *testing.T) {
	gen := &fakeGenerator{completion: hedgedPlanCompletion}
	search := &fakeSearcher{configured: true, results: []SearchResult{
		{Title: "Study", URL: "https://example.org/study", Score: 0.9},
	}}
	p := NewPipeline(gen, search)

	day, err := p.GenerateDayPlan(context.Background(), testSettings(), "")
	require.NoError(t, err)
	require.Len(t, day.Meals, 3)
	assert.Equal(t, 1400.0, day.DailyTotals.Calories)

	// Two meals hedge, one does not.
	assert.Len(t, search.queries, 2)
	assert.Contains(t, search.queries, "scientific evidence Oats may help lower cholesterol. nutrition")
	assert.Equal(t, []string{"https://example.org/study"}, day.Meals[0].ScientificSources)
	assert.Equal(t, []string{}, day.Meals[1].ScientificSources)

	require.Len(t, gen.calls, 1)
	require.Len(t, gen.calls[0].messages, 2)
	assert.Equal(t, "system", gen.calls[0].messages[0].Role)
	assert.Equal(t, "user", gen.calls[0].messages[1].Role)
}

func TestGenerateDayPlanCustomPrompt(t *testing.T) {
	gen := &fakeGenerator{completion: hedgedPlanCompletion}
	p := NewPipeline(gen, &fakeSearcher{})

	_, err := p.GenerateDayPlan(context.Background(), testSettings(), "I have a marathon this weekend")
	require.NoError(t, err)
	assert.Contains(t, gen.calls[0].messages[1].Content, "User's custom request: I have a marathon this weekend")
}

func TestGenerateDayPlanRateLimited(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("completion request: %w", ErrRateLimited)}
	p := NewPipeline(gen, &fakeSearcher{})

	_, err := p.GenerateDayPlan(context.Background(), testSettings(), "")
	assert.ErrorIs(t, err, ErrRateLimited)
	// No retry: exactly one upstream call.
	assert.Len(t, gen.calls, 1)
}

func TestGenerateDayPlanUnparseable(t *testing.T) {
	gen := &fakeGenerator{completion: "Sorry, I can't help with that."}
	p := NewPipeline(gen, &fakeSearcher{})

	day, err := p.GenerateDayPlan(context.Background(), testSettings(), "")
	assert.Nil(t, day)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestGenerateEditedItemKeepsKind(t *testing.T) {
	gen := &fakeGenerator{completion: `{
		"type": "afternoon_snack",
		"name": "Fruit Cup",
		"ingredients": [{"name": "melon", "quantity": "150g"}],
		"macros": {"calories": 120, "protein": 2, "carbs": 28, "fat": 1, "fiber": 3},
		"portability": "semi_portable"
	}`}
	p := NewPipeline(gen, &fakeSearcher{})

	original := PlanItem{Kind: KindSnack, Type: SnackAfternoon, Name: "Trail Mix"}
	updated, err := p.GenerateEditedItem(context.Background(), original, "something fruity", testSettings())
	require.NoError(t, err)
	assert.Equal(t, KindSnack, updated.Kind)
	assert.Equal(t, "Fruit Cup", updated.Name)
	assert.Equal(t, PortabilitySemiPortable, updated.Portability)
}

func TestGenerateSnack(t *testing.T) {
	gen := &fakeGenerator{completion: `{
		"type": "morning_snack",
		"name": "Kefir Smoothie",
		"ingredients": [{"name": "kefir", "quantity": "250ml"}],
		"macros": {"calories": 180, "protein": 9, "carbs": 20, "fat": 7, "fiber": 1},
		"nutritional_reasoning": "Fermented dairy may help gut flora diversity."
	}`}
	search := &fakeSearcher{configured: true, results: []SearchResult{{URL: "https://example.org/kefir"}}}
	p := NewPipeline(gen, search)

	snack, err := p.GenerateSnack(context.Background(), testSettings(), SnackPreferences{Timing: "morning", CalorieTarget: 180})
	require.NoError(t, err)
	assert.Equal(t, KindSnack, snack.Kind)
	assert.Equal(t, SnackMorning, snack.Type)
	assert.Equal(t, []string{"https://example.org/kefir"}, snack.ScientificSources)
}

/* =================================================================================
							EVIDENCE ANNOTATION
=================================================================================*/

func TestNeedsEvidence(t *testing.T) {
	assert.True(t, NeedsEvidence("Oats MAY HELP lower cholesterol."))
	assert.True(t, NeedsEvidence("Some studies suggest fiber aids satiety."))
	assert.False(t, NeedsEvidence("High in protein and fiber."))
	assert.False(t, NeedsEvidence(""))
}

func TestAnnotateSkippedWhenUnconfigured(t *testing.T) {
	search := &fakeSearcher{configured: false}
	p := NewPipeline(&fakeGenerator{}, search)

	day := &GeneratedDay{Meals: []PlanItem{{Name: "Oatmeal", NutritionalReasoning: "may help digestion", ScientificSources: []string{}}}}
	p.AnnotateDay(context.Background(), day)

	assert.Empty(t, search.queries)
	assert.Equal(t, []string{}, day.Meals[0].ScientificSources)
}

func TestAnnotateSearchFailureIsSoft(t *testing.T) {
	search := &fakeSearcher{configured: true, err: errors.New("upstream timeout")}
	p := NewPipeline(&fakeGenerator{}, search)

	day := &GeneratedDay{Meals: []PlanItem{{Name: "Oatmeal", NutritionalReasoning: "may help digestion"}}}
	p.AnnotateDay(context.Background(), day)

	// The day survives with empty sources instead of failing.
	assert.Equal(t, []string{}, day.Meals[0].ScientificSources)
}
