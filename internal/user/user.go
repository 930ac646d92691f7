package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"nutriplan/internal/database"
	"nutriplan/internal/mealplan"
	"nutriplan/internal/utility"
)

/* =================================================================================
							PACKAGE STATE
=================================================================================*/

var (
	queries  *database.Queries
	dbpool   *pgxpool.Pool
	pipeline *mealplan.Pipeline
)

// InitUserPackage wires the handlers to the database and generation pipeline.
func InitUserPackage(pool *pgxpool.Pool, p *mealplan.Pipeline) {
	dbpool = pool
	queries = database.New(pool)
	pipeline = p
}

/* =================================================================================
							RESPONSE HELPERS
=================================================================================*/

func respondError(c echo.Context, status int, message string, details string) error {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	return c.JSON(status, body)
}

// respondPipelineError maps pipeline sentinels onto HTTP statuses. Raw model
// output never leaves the server.
func respondPipelineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, mealplan.ErrRateLimited):
		return respondError(c, http.StatusTooManyRequests, "Generation service is rate limited", "Please try again shortly")
	case errors.Is(err, mealplan.ErrInvalidModelOutput):
		return respondError(c, http.StatusBadGateway, "Generation produced an invalid response", "Please try again")
	case errors.Is(err, mealplan.ErrGenerationFailed):
		return respondError(c, http.StatusBadGateway, "Generation service is unavailable", "Please try again")
	default:
		log.Error().Err(err).Msg("Unexpected pipeline error")
		return respondError(c, http.StatusInternalServerError, "Internal server error", "")
	}
}

// currentUserID extracts and parses the authenticated user's id.
func currentUserID(c echo.Context) (pgtype.UUID, error) {
	raw, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return utility.StringToPgtypeUUID(raw)
}

/* =================================================================================
						ROW <-> DOMAIN CONVERSIONS
=================================================================================*/

func profileToSettings(p database.UserProfile) mealplan.Settings {
	return mealplan.Settings{
		PrimaryGoal: mealplan.Goal(p.PrimaryGoal),
		Biometrics: mealplan.Biometrics{
			WeightKg: utility.NumericToFloat(p.WeightKg),
			HeightCm: utility.NumericToFloat(p.HeightCm),
			Age:      int(p.Age),
			Sex:      mealplan.Sex(p.Sex),
		},
		CulturalCuisines:    p.CulturalCuisines,
		Location:            p.Location,
		DietaryRestrictions: p.DietaryRestrictions,
		FoodDislikes:        p.FoodDislikes,
	}
}

func mealToPlanItem(m database.Meal) mealplan.PlanItem {
	item := mealplan.PlanItem{
		ID:                   utility.UuidToString(m.MealID),
		Kind:                 mealplan.KindMeal,
		Type:                 m.MealType,
		Name:                 m.Name,
		Instructions:         m.Instructions,
		Macros:               rowMacros(m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber),
		NutritionalReasoning: m.NutritionalReasoning,
		ScientificSources:    m.ScientificSources,
		PrepTimeMinutes:      int(m.PrepTimeMinutes),
	}
	item.Ingredients = decodeIngredients(m.Ingredients)
	item.EditHistory = decodeEditHistory(m.EditHistory)
	if item.ScientificSources == nil {
		item.ScientificSources = []string{}
	}
	return item
}

func snackToPlanItem(s database.Snack) mealplan.PlanItem {
	item := mealplan.PlanItem{
		ID:                   utility.UuidToString(s.SnackID),
		Kind:                 mealplan.KindSnack,
		Type:                 s.SnackType,
		Name:                 s.Name,
		Instructions:         s.Instructions,
		Macros:               rowMacros(s.Calories, s.Protein, s.Carbs, s.Fat, s.Fiber),
		NutritionalReasoning: s.NutritionalReasoning,
		ScientificSources:    s.ScientificSources,
		PrepTimeMinutes:      int(s.PrepTimeMinutes),
		Portability:          s.Portability,
		IdealTiming:          s.IdealTiming,
	}
	item.Ingredients = decodeIngredients(s.Ingredients)
	item.EditHistory = decodeEditHistory(s.EditHistory)
	if item.ScientificSources == nil {
		item.ScientificSources = []string{}
	}
	return item
}

func rowMacros(calories, protein, carbs, fat, fiber pgtype.Numeric) mealplan.Macros {
	return mealplan.Macros{
		Calories: utility.NumericToFloat(calories),
		Protein:  utility.NumericToFloat(protein),
		Carbs:    utility.NumericToFloat(carbs),
		Fat:      utility.NumericToFloat(fat),
		Fiber:    utility.NumericToFloat(fiber),
	}
}

func decodeIngredients(raw []byte) []mealplan.Ingredient {
	ingredients := []mealplan.Ingredient{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ingredients); err != nil {
			log.Warn().Err(err).Msg("Failed to decode stored ingredients")
		}
	}
	return ingredients
}

func decodeEditHistory(raw []byte) []mealplan.EditHistoryEntry {
	history := []mealplan.EditHistoryEntry{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &history); err != nil {
			log.Warn().Err(err).Msg("Failed to decode stored edit history")
		}
	}
	return history
}

func encodeJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON column")
		return []byte("[]")
	}
	return b
}

func createMealParams(dayPlanID pgtype.UUID, item mealplan.PlanItem) (database.CreateMealParams, error) {
	mealID, err := utility.StringToPgtypeUUID(item.ID)
	if err != nil {
		return database.CreateMealParams{}, err
	}
	return database.CreateMealParams{
		MealID:               mealID,
		DayPlanID:            dayPlanID,
		MealType:             item.Type,
		Name:                 item.Name,
		Ingredients:          encodeJSON(item.Ingredients),
		Instructions:         item.Instructions,
		Calories:             utility.FloatToNumeric(item.Macros.Calories),
		Protein:              utility.FloatToNumeric(item.Macros.Protein),
		Carbs:                utility.FloatToNumeric(item.Macros.Carbs),
		Fat:                  utility.FloatToNumeric(item.Macros.Fat),
		Fiber:                utility.FloatToNumeric(item.Macros.Fiber),
		NutritionalReasoning: item.NutritionalReasoning,
		ScientificSources:    item.ScientificSources,
		PrepTimeMinutes:      int32(item.PrepTimeMinutes),
		EditHistory:          encodeJSON(item.EditHistory),
	}, nil
}

func createSnackParams(dayPlanID, userID pgtype.UUID, item mealplan.PlanItem) (database.CreateSnackParams, error) {
	snackID, err := utility.StringToPgtypeUUID(item.ID)
	if err != nil {
		return database.CreateSnackParams{}, err
	}
	return database.CreateSnackParams{
		SnackID:              snackID,
		DayPlanID:            dayPlanID,
		UserID:               userID,
		SnackType:            item.Type,
		Name:                 item.Name,
		Ingredients:          encodeJSON(item.Ingredients),
		Instructions:         item.Instructions,
		Calories:             utility.FloatToNumeric(item.Macros.Calories),
		Protein:              utility.FloatToNumeric(item.Macros.Protein),
		Carbs:                utility.FloatToNumeric(item.Macros.Carbs),
		Fat:                  utility.FloatToNumeric(item.Macros.Fat),
		Fiber:                utility.FloatToNumeric(item.Macros.Fiber),
		NutritionalReasoning: item.NutritionalReasoning,
		ScientificSources:    item.ScientificSources,
		PrepTimeMinutes:      int32(item.PrepTimeMinutes),
		Portability:          item.Portability,
		IdealTiming:          item.IdealTiming,
		EditHistory:          encodeJSON(item.EditHistory),
	}, nil
}

// isNoRows reports whether err is the pgx "not found" sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
