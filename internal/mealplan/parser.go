package mealplan

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Default prep times substituted when the model omits prep_time_minutes.
const (
	defaultMealPrepMinutes  = 30
	defaultSnackPrepMinutes = 10
)

/* =================================================================================
							WIRE PAYLOADS
	Shapes the model is instructed to emit. Pointers distinguish an absent
	required field from a present-but-empty one.
=================================================================================*/

type itemPayload struct {
	Type                 string        `json:"type"`
	Name                 string        `json:"name"`
	Ingredients          *[]Ingredient `json:"ingredients"`
	Instructions         string        `json:"instructions"`
	Macros               *Macros       `json:"macros"`
	NutritionalReasoning string        `json:"nutritional_reasoning"`
	ScientificSources    []string      `json:"scientific_sources"`
	PrepTimeMinutes      int           `json:"prep_time_minutes"`
	Portability          string        `json:"portability"`
	IdealTiming          string        `json:"ideal_timing"`
}

type planPayload struct {
	Meals       []itemPayload `json:"meals"`
	Snacks      []itemPayload `json:"snacks"`
	DailyTotals *Macros       `json:"daily_totals"`
}

// ExtractJSON isolates the JSON object embedded in a completion. Markdown
// code fences are stripped first; then the outermost balanced {...} pair is
// located, which survives stray braces in prose before or after the object.
func ExtractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	// Strip ```json ... ``` or bare ``` ... ``` fencing.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", invalidOutput(raw, "no JSON object found in completion")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", invalidOutput(raw, "unbalanced JSON object in completion")
}

// ParseDayPlan parses a full-plan completion into meals, snacks, and totals.
// The whole operation fails if any meal or snack is structurally invalid; no
// partial day is ever returned.
func ParseDayPlan(raw string) (*GeneratedDay, error) {
	jsonText, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload planPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, invalidOutput(raw, "completion is not valid JSON: %v", err)
	}

	if len(payload.Meals) == 0 {
		return nil, invalidOutput(raw, "plan is missing a non-empty meals array")
	}

	day := &GeneratedDay{}
	for i, mp := range payload.Meals {
		meal, err := buildItem(mp, KindMeal, raw, "meals", i)
		if err != nil {
			return nil, err
		}
		day.Meals = append(day.Meals, *meal)
	}
	for i, sp := range payload.Snacks {
		snack, err := buildItem(sp, KindSnack, raw, "snacks", i)
		if err != nil {
			return nil, err
		}
		day.Snacks = append(day.Snacks, *snack)
	}

	// The model's own daily_totals are ignored; totals are summed from the
	// parsed items.
	all := append(append([]PlanItem{}, day.Meals...), day.Snacks...)
	day.DailyTotals = SumMacros(all)

	return day, nil
}

// ParseItem parses a single-item completion (meal edit, snack generation).
func ParseItem(raw string, kind ItemKind) (*PlanItem, error) {
	jsonText, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload itemPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, invalidOutput(raw, "completion is not valid JSON: %v", err)
	}

	return buildItem(payload, kind, raw, string(kind), 0)
}

// buildItem validates one wire item and maps it to the canonical PlanItem,
// assigning a fresh identifier and filling defaults for optional fields.
func buildItem(p itemPayload, kind ItemKind, raw, section string, idx int) (*PlanItem, error) {
	if p.Name == "" {
		return nil, invalidOutput(raw, "%s[%d]: missing required field \"name\"", section, idx)
	}
	if p.Ingredients == nil {
		return nil, invalidOutput(raw, "%s[%d]: missing required field \"ingredients\"", section, idx)
	}
	if p.Macros == nil {
		return nil, invalidOutput(raw, "%s[%d]: missing required field \"macros\"", section, idx)
	}
	if p.Macros.Calories < 0 || p.Macros.Protein < 0 || p.Macros.Carbs < 0 ||
		p.Macros.Fat < 0 || p.Macros.Fiber < 0 {
		return nil, invalidOutput(raw, "%s[%d]: negative macro value", section, idx)
	}

	item := &PlanItem{
		ID:                   uuid.New().String(),
		Kind:                 kind,
		Type:                 p.Type,
		Name:                 p.Name,
		Ingredients:          *p.Ingredients,
		Instructions:         p.Instructions,
		Macros:               *p.Macros,
		NutritionalReasoning: p.NutritionalReasoning,
		ScientificSources:    p.ScientificSources,
		PrepTimeMinutes:      p.PrepTimeMinutes,
		EditHistory:          []EditHistoryEntry{},
	}
	if item.ScientificSources == nil {
		item.ScientificSources = []string{}
	}

	switch kind {
	case KindMeal:
		if !ValidMealTypes[p.Type] {
			return nil, invalidOutput(raw, "%s[%d]: unrecognized meal type %q", section, idx, p.Type)
		}
		if item.PrepTimeMinutes <= 0 {
			item.PrepTimeMinutes = defaultMealPrepMinutes
		}
	case KindSnack:
		if !ValidSnackTypes[p.Type] {
			return nil, invalidOutput(raw, "%s[%d]: unrecognized snack type %q", section, idx, p.Type)
		}
		// Absent portability gets the default; a present-but-unknown value
		// is a validation failure, never silently coerced.
		if p.Portability == "" {
			item.Portability = PortabilityPortable
		} else if !ValidPortabilities[p.Portability] {
			return nil, invalidOutput(raw, "%s[%d]: unrecognized portability %q", section, idx, p.Portability)
		} else {
			item.Portability = p.Portability
		}
		item.IdealTiming = p.IdealTiming
		if item.PrepTimeMinutes <= 0 {
			item.PrepTimeMinutes = defaultSnackPrepMinutes
		}
	}

	return item, nil
}
