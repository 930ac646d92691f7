package mealplan

import (
	"fmt"
	"strings"
)

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
	Every builder here is pure and deterministic for identical inputs. The
	model has no source of the user's constraints other than this text, so
	hard restrictions and soft preferences are always rendered verbatim and
	in full; summarizing or truncating them is a correctness bug.
=================================================================================*/

// Prompt is a system/user instruction pair for the generation model.
type Prompt struct {
	System string
	User   string
}

// SnackPreferences parameterizes standalone snack generation.
type SnackPreferences struct {
	Timing        string // "morning", "afternoon", "evening"
	CalorieTarget int
	Preference    string // optional free text, e.g. "something savory"
}

const planSystemPrompt = `You are an expert nutritionist and meal planner with deep knowledge of:
- Evidence-based nutrition science
- Cultural cuisines and ingredient availability
- Dietary restrictions and food allergies
- Macronutrient optimization for health goals

Your task is to create personalized, science-backed meal plans that are:
1. Nutritionally optimized for the user's specific health goal
2. Culturally appropriate and use locally available ingredients
3. Strictly compliant with all dietary restrictions
4. Practical and enjoyable to prepare and eat

Always provide clear nutritional reasoning based on scientific evidence.`

const editSystemPrompt = `You are an expert nutritionist helping refine a meal plan. You must:
1. Maintain nutritional quality and goal alignment
2. Respect all dietary restrictions
3. Keep meals culturally appropriate
4. Provide scientific reasoning for changes`

const snackSystemPrompt = `You are an expert nutritionist creating personalized snack recommendations based on:
- User's health goals and nutritional needs
- Timing and purpose of the snack
- Cultural preferences and ingredient availability
- Dietary restrictions

Provide science-backed snack ideas that fit seamlessly into the user's meal plan.`

// planOutputSchema is embedded literally in the plan prompt. Enum values are
// spelled out because the parser rejects anything outside these sets.
const planOutputSchema = `{
  "meals": [
    {
      "type": "breakfast" | "lunch" | "dinner",
      "name": "Meal name",
      "ingredients": [{"name": "ingredient", "quantity": "100g"}],
      "instructions": "Brief cooking instructions",
      "macros": {"calories": 500, "protein": 30, "carbs": 50, "fat": 15, "fiber": 10},
      "nutritional_reasoning": "Why this meal supports the goal",
      "prep_time_minutes": 30
    }
  ],
  "snacks": [
    {
      "type": "morning_snack" | "afternoon_snack" | "evening_snack",
      "name": "Snack name",
      "ingredients": [{"name": "ingredient", "quantity": "50g"}],
      "instructions": "How to prepare",
      "macros": {"calories": 200, "protein": 10, "carbs": 20, "fat": 8, "fiber": 5},
      "nutritional_reasoning": "Why this snack",
      "portability": "portable" | "semi_portable" | "not_portable",
      "prep_time_minutes": 5,
      "ideal_timing": "2 hours before lunch"
    }
  ],
  "daily_totals": {"calories": 2000, "protein": 150, "carbs": 200, "fat": 60, "fiber": 30}
}`

// BuildPlanPrompt assembles the full one-day generation prompt from the
// user's settings and the calculated calorie envelope.
func BuildPlanPrompt(s Settings, t Targets) Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a personalized 1-day meal plan for the following user:\n\n")
	fmt.Fprintf(&b, "**User Profile:**\n")
	fmt.Fprintf(&b, "- Age: %d years\n", s.Biometrics.Age)
	fmt.Fprintf(&b, "- Sex: %s\n", s.Biometrics.Sex)
	fmt.Fprintf(&b, "- Weight: %g kg\n", s.Biometrics.WeightKg)
	fmt.Fprintf(&b, "- Height: %g cm\n", s.Biometrics.HeightCm)
	fmt.Fprintf(&b, "- Primary Goal: %s\n", t.Goal.Name)
	fmt.Fprintf(&b, "- Cultural Preference: %s cuisine\n", joinOr(s.CulturalCuisines, "international"))
	fmt.Fprintf(&b, "- Location: %s", s.Location)
	b.WriteString(renderPreferences(s.FoodDislikes))
	b.WriteString(renderRestrictions(s.DietaryRestrictions))

	fmt.Fprintf(&b, "\n\n**Nutritional Target:**\n")
	fmt.Fprintf(&b, "- Target Daily Calories: ~%d kcal\n", t.TargetCalories)
	fmt.Fprintf(&b, "- Goal-Specific Focus: %s\n", t.Goal.Focus)
	fmt.Fprintf(&b, "- Macro Distribution: %s\n", t.Goal.MacroSplit)

	b.WriteString("\n**Requirements:**\n")
	b.WriteString("1. Create exactly 3 meals (breakfast, lunch, dinner) and 1-3 snacks\n")
	b.WriteString(`2. Each meal and snack must include:
   - A descriptive, appetizing name
   - Complete ingredient list with quantities
   - Detailed macronutrient breakdown (calories, protein, carbs, fat, fiber)
   - Scientific nutritional reasoning (2-3 sentences explaining why it supports the goal)
   - Preparation time estimate
   - Cooking instructions (brief)
`)
	fmt.Fprintf(&b, "3. Meals should draw from %s cuisine preferences\n", joinOr(s.CulturalCuisines, "international"))
	fmt.Fprintf(&b, "4. Use ingredients commonly available in %s\n", s.Location)
	fmt.Fprintf(&b, "5. Total daily macros should sum to approximately %d kcal\n", t.TargetCalories)
	b.WriteString("6. Meal \"type\" must be EXACTLY one of: \"breakfast\", \"lunch\", \"dinner\"\n")
	b.WriteString("7. Snack \"type\" must be EXACTLY one of: \"morning_snack\", \"afternoon_snack\", \"evening_snack\"\n")
	b.WriteString("8. Snack \"portability\" must be EXACTLY one of: \"portable\", \"semi_portable\", \"not_portable\"\n")
	if len(s.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "9. ABSOLUTELY NO ingredients that violate these restrictions: %s\n",
			strings.Join(s.DietaryRestrictions, ", "))
	}

	b.WriteString("\n**Output Format:**\nReturn a valid JSON object with this exact structure:\n\n")
	b.WriteString(planOutputSchema)
	b.WriteString("\n\nReturn ONLY the JSON object, no additional text.")

	return Prompt{System: planSystemPrompt, User: b.String()}
}

// BuildEditPrompt assembles the single-item regeneration prompt. The model
// must keep the item's type, stay within +-100 kcal unless the instruction
// explicitly asks for a calorie change, and keep honoring restrictions.
func BuildEditPrompt(item PlanItem, instruction string, s Settings) Prompt {
	goal := GoalContextFor(s.PrimaryGoal)
	noun := "meal"
	if item.Kind == KindSnack {
		noun = "snack"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Modify the following %s %s based on the user's request.\n\n", item.Type, noun)

	label := "Meal"
	if item.Kind == KindSnack {
		label = "Snack"
	}
	fmt.Fprintf(&b, "**Current %s:**\n", label)
	fmt.Fprintf(&b, "Name: %s\n", item.Name)
	fmt.Fprintf(&b, "Macros: %g kcal, %gg protein, %gg carbs, %gg fat\n",
		item.Macros.Calories, item.Macros.Protein, item.Macros.Carbs, item.Macros.Fat)
	fmt.Fprintf(&b, "Ingredients: %s\n", renderIngredients(item.Ingredients))

	fmt.Fprintf(&b, "\n**User's Edit Request:**\n%q\n", instruction)

	fmt.Fprintf(&b, "\n**User Context (maintain alignment):**\n")
	fmt.Fprintf(&b, "- Goal: %s\n", goal.Name)
	fmt.Fprintf(&b, "- Cultural Preference: %s cuisine\n", joinOr(s.CulturalCuisines, "international"))
	fmt.Fprintf(&b, "- Location: %s", s.Location)
	b.WriteString(renderPreferences(s.FoodDislikes))
	b.WriteString(renderRestrictions(s.DietaryRestrictions))

	b.WriteString("\n\n**Requirements:**\n")
	b.WriteString("1. Apply the user's requested changes\n")
	fmt.Fprintf(&b, "2. Keep the same type: %q\n", item.Type)
	b.WriteString("3. Maintain similar calorie count (±100 kcal) unless the user specifically requests a change\n")
	fmt.Fprintf(&b, "4. Keep macros aligned with the goal: %s\n", goal.MacroSplit)
	b.WriteString("5. Ensure all dietary restrictions are still respected\n")
	b.WriteString("6. Provide updated nutritional reasoning explaining the changes\n")

	b.WriteString("\n**Output Format:**\nReturn a valid JSON object with this exact structure:\n\n")
	fmt.Fprintf(&b, `{
  "type": %q,
  "name": "Updated name",
  "ingredients": [{"name": "ingredient", "quantity": "100g"}],
  "instructions": "Updated cooking instructions",
  "macros": {"calories": 500, "protein": 30, "carbs": 50, "fat": 15, "fiber": 10},
  "nutritional_reasoning": "Why this updated version is good",
  "prep_time_minutes": 30`, item.Type)
	if item.Kind == KindSnack {
		b.WriteString(`,
  "portability": "portable" | "semi_portable" | "not_portable",
  "ideal_timing": "timing suggestion"`)
	}
	b.WriteString("\n}\n\nReturn ONLY the JSON object, no additional text.")

	return Prompt{System: editSystemPrompt, User: b.String()}
}

var snackTimingDescriptions = map[string]string{
	"morning":   "mid-morning (between breakfast and lunch)",
	"afternoon": "mid-afternoon (between lunch and dinner)",
	"evening":   "evening (after dinner)",
}

// BuildSnackPrompt assembles the standalone single-snack prompt for a timing
// slot and calorie target (±50 kcal tolerance).
func BuildSnackPrompt(s Settings, prefs SnackPreferences) Prompt {
	goal := GoalContextFor(s.PrimaryGoal)
	timingDesc, ok := snackTimingDescriptions[prefs.Timing]
	if !ok {
		timingDesc = prefs.Timing
	}

	var b strings.Builder
	b.WriteString("Create a personalized snack for the following user:\n\n")
	fmt.Fprintf(&b, "**User Profile:**\n")
	fmt.Fprintf(&b, "- Age: %d, Sex: %s\n", s.Biometrics.Age, s.Biometrics.Sex)
	fmt.Fprintf(&b, "- Weight: %g kg, Height: %g cm\n", s.Biometrics.WeightKg, s.Biometrics.HeightCm)
	fmt.Fprintf(&b, "- Primary Goal: %s\n", goal.Name)
	fmt.Fprintf(&b, "- Cultural Preferences: %s cuisines\n", joinOr(s.CulturalCuisines, "international"))
	fmt.Fprintf(&b, "- Location: %s", s.Location)
	b.WriteString(renderPreferences(s.FoodDislikes))
	b.WriteString(renderRestrictions(s.DietaryRestrictions))

	fmt.Fprintf(&b, "\n\n**Snack Requirements:**\n")
	fmt.Fprintf(&b, "- Timing: %s\n", timingDesc)
	fmt.Fprintf(&b, "- Target Calories: ~%d kcal (±50 kcal is acceptable)\n", prefs.CalorieTarget)
	fmt.Fprintf(&b, "- Purpose: %s\n", goal.SnackPurpose)
	if prefs.Preference != "" {
		fmt.Fprintf(&b, "- User Preference: %s\n", prefs.Preference)
	}

	b.WriteString("\n**Requirements:**\n")
	b.WriteString("1. Keep it simple and quick to prepare (<=10 minutes)\n")
	fmt.Fprintf(&b, "2. \"type\" must be EXACTLY %q\n", SnackTypeForTiming(prefs.Timing))
	b.WriteString("3. \"portability\" must be EXACTLY one of: \"portable\", \"semi_portable\", \"not_portable\"\n")

	b.WriteString("\n**Output Format:**\nReturn a valid JSON object with this exact structure:\n\n")
	fmt.Fprintf(&b, `{
  "type": %q,
  "name": "Snack name",
  "ingredients": [{"name": "ingredient", "quantity": "50g"}],
  "instructions": "How to prepare",
  "macros": {"calories": %d, "protein": 10, "carbs": 20, "fat": 8, "fiber": 5},
  "nutritional_reasoning": "Why this snack",
  "portability": "portable" | "semi_portable" | "not_portable",
  "prep_time_minutes": 5,
  "ideal_timing": "timing suggestion"
}`, SnackTypeForTiming(prefs.Timing), prefs.CalorieTarget)
	b.WriteString("\n\nReturn ONLY the JSON object, no additional text.")

	return Prompt{System: snackSystemPrompt, User: b.String()}
}

// SnackTypeForTiming maps a timing slot to its snack type enum value.
func SnackTypeForTiming(timing string) string {
	switch timing {
	case "morning":
		return SnackMorning
	case "afternoon":
		return SnackAfternoon
	case "evening":
		return SnackEvening
	}
	return SnackMorning
}

// renderRestrictions renders hard constraints verbatim, one per line.
func renderRestrictions(restrictions []string) string {
	if len(restrictions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nCRITICAL DIETARY RESTRICTIONS (MUST BE FOLLOWED - NEVER VIOLATE):\n")
	for i, r := range restrictions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + r)
	}
	return b.String()
}

// renderPreferences renders soft constraints verbatim, one per line.
func renderPreferences(dislikes []string) string {
	if len(dislikes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nFOOD PREFERENCES (avoid when possible):\n")
	for i, d := range dislikes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + d)
	}
	return b.String()
}

func renderIngredients(ingredients []Ingredient) string {
	parts := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		parts = append(parts, fmt.Sprintf("%s (%s)", ing.Name, ing.Quantity))
	}
	return strings.Join(parts, ", ")
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
