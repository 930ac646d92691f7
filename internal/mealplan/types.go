package mealplan

import "time"

/* =================================================================================
							CANONICAL DOMAIN TYPES
	Meal vs Snack duck-typing from the client is resolved exactly once, at this
	boundary: both become a PlanItem carrying a Kind tag. Nothing downstream
	re-sniffs field-name variants.
=================================================================================*/

// Goal is the user's primary health goal driving the calorie envelope.
type Goal string

const (
	GoalMuscleBuilding    Goal = "muscle_building"
	GoalWeightLoss        Goal = "weight_loss"
	GoalGutHealth         Goal = "gut_health"
	GoalMentalPerformance Goal = "mental_performance"
	GoalGeneralHealth     Goal = "general_health"
)

// ValidGoals lists every accepted goal value, for request validation.
var ValidGoals = map[Goal]bool{
	GoalMuscleBuilding:    true,
	GoalWeightLoss:        true,
	GoalGutHealth:         true,
	GoalMentalPerformance: true,
	GoalGeneralHealth:     true,
}

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Biometrics is the physical profile the calorie targets derive from.
// Frozen into the plan's profile snapshot at generation time.
type Biometrics struct {
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
	Age      int     `json:"age"`
	Sex      Sex     `json:"sex"`
}

// Settings is everything the prompt builder needs to know about the user.
// It is built either from the live profile or from a stored plan snapshot.
type Settings struct {
	PrimaryGoal         Goal       `json:"primary_goal"`
	Biometrics          Biometrics `json:"biometrics"`
	CulturalCuisines    []string   `json:"cultural_cuisines"`
	Location            string     `json:"location"`
	DietaryRestrictions []string   `json:"dietary_restrictions"` // hard constraints, never violated
	FoodDislikes        []string   `json:"food_dislikes"`        // soft constraints, avoided when feasible
}

// Macros carries the nutrition values the model reports per item. The values
// are trusted structurally (non-negative, present), not nutritionally: no
// 4/4/9 kcal-per-gram cross-check is performed.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"` // free-form, e.g. "150g", "1 cup"
}

// EditHistoryEntry captures exactly enough state to undo the most recent
// edit: the pre-edit name and macros. Ingredients and instructions are not
// snapshotted, so undo restores only name and macros.
type EditHistoryEntry struct {
	EditedAt       time.Time `json:"edited_at"`
	Instruction    string    `json:"instruction"`
	PreviousName   string    `json:"previous_name"`
	PreviousMacros Macros    `json:"previous_macros"`
}

// ItemKind tags a PlanItem as a meal or a snack.
type ItemKind string

const (
	KindMeal  ItemKind = "meal"
	KindSnack ItemKind = "snack"
)

// Meal types and snack slots the model is allowed to emit.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"

	SnackMorning   = "morning_snack"
	SnackAfternoon = "afternoon_snack"
	SnackEvening   = "evening_snack"
)

var ValidMealTypes = map[string]bool{
	MealBreakfast: true,
	MealLunch:     true,
	MealDinner:    true,
}

var ValidSnackTypes = map[string]bool{
	SnackMorning:   true,
	SnackAfternoon: true,
	SnackEvening:   true,
}

// Portability values for snacks.
const (
	PortabilityPortable     = "portable"
	PortabilitySemiPortable = "semi_portable"
	PortabilityNotPortable  = "not_portable"
)

var ValidPortabilities = map[string]bool{
	PortabilityPortable:     true,
	PortabilitySemiPortable: true,
	PortabilityNotPortable:  true,
}

// PlanItem is the unified meal/snack record. Portability and IdealTiming are
// only meaningful when Kind is KindSnack.
type PlanItem struct {
	ID                   string             `json:"id"`
	Kind                 ItemKind           `json:"kind"`
	Type                 string             `json:"type"`
	Name                 string             `json:"name"`
	Ingredients          []Ingredient       `json:"ingredients"`
	Instructions         string             `json:"instructions"`
	Macros               Macros             `json:"macros"`
	NutritionalReasoning string             `json:"nutritional_reasoning"`
	ScientificSources    []string           `json:"scientific_sources"`
	PrepTimeMinutes      int                `json:"prep_time_minutes"`
	EditHistory          []EditHistoryEntry `json:"edit_history"`

	// Snack-specific fields.
	Portability string `json:"portability,omitempty"`
	IdealTiming string `json:"ideal_timing,omitempty"`
}

// GeneratedDay is one parsed day of model output, before persistence.
type GeneratedDay struct {
	Meals       []PlanItem
	Snacks      []PlanItem
	DailyTotals Macros
}
