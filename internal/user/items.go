package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"nutriplan/internal/database"
	"nutriplan/internal/mealplan"
	"nutriplan/internal/utility"
)

/* =================================================================================
							ITEM DTOs
=================================================================================*/

type EditItemRequest struct {
	Instruction string `json:"instruction"`
}

// storedItem couples a domain item with the row location it came from.
type storedItem struct {
	item      mealplan.PlanItem
	dayPlanID pgtype.UUID // invalid for standalone snacks
}

/* =================================================================================
							ITEM HANDLERS
=================================================================================*/

// EditItemHandler regenerates one meal or snack from a natural-language
// instruction. The update and the day totals land in one transaction; a
// failed generation leaves the stored item untouched.
func EditItemHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}
	itemID, err := utility.StringToPgtypeUUID(c.Param("item_id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid item id", "")
	}

	var req EditItemRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", "")
	}
	if req.Instruction == "" {
		return respondError(c, http.StatusBadRequest, "Instruction is required", "")
	}

	stored, err := findItemForUser(ctx, itemID, userID)
	if err != nil {
		if isNoRows(err) {
			return respondError(c, http.StatusNotFound, "Item not found", "")
		}
		log.Error().Err(err).Msg("Failed to fetch item")
		return respondError(c, http.StatusInternalServerError, "Failed to fetch item", "")
	}

	settings := settingsForItem(ctx, stored, userID)

	regenerated, err := pipeline.GenerateEditedItem(ctx, stored.item, req.Instruction, settings)
	if err != nil {
		return respondPipelineError(c, err)
	}

	mealplan.ApplyEdit(&stored.item, req.Instruction, regenerated, time.Now())

	if err := persistItemUpdate(ctx, stored); err != nil {
		log.Error().Err(err).Msg("Failed to persist item edit")
		return respondError(c, http.StatusInternalServerError, "Failed to save edit", "")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"item":    stored.item,
	})
}

// UndoItemHandler reverts the most recent edit: the previous name and macros
// are restored and the history entry is removed.
func UndoItemHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}
	itemID, err := utility.StringToPgtypeUUID(c.Param("item_id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid item id", "")
	}

	stored, err := findItemForUser(ctx, itemID, userID)
	if err != nil {
		if isNoRows(err) {
			return respondError(c, http.StatusNotFound, "Item not found", "")
		}
		log.Error().Err(err).Msg("Failed to fetch item")
		return respondError(c, http.StatusInternalServerError, "Failed to fetch item", "")
	}

	if err := mealplan.UndoLastEdit(&stored.item); err != nil {
		return respondError(c, http.StatusBadRequest, "No edit to undo", "The item has no edit history")
	}

	if err := persistItemUpdate(ctx, stored); err != nil {
		log.Error().Err(err).Msg("Failed to persist undo")
		return respondError(c, http.StatusInternalServerError, "Failed to save undo", "")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"item":    stored.item,
	})
}

/* =================================================================================
							ITEM PLUMBING
=================================================================================*/

// findItemForUser resolves an item id against the caller's meals first, then
// snacks. pgx.ErrNoRows propagates when neither table has it.
func findItemForUser(ctx context.Context, itemID, userID pgtype.UUID) (*storedItem, error) {
	meal, err := queries.GetMealForUser(ctx, database.GetMealForUserParams{MealID: itemID, UserID: userID})
	if err == nil {
		return &storedItem{item: mealToPlanItem(meal), dayPlanID: meal.DayPlanID}, nil
	}
	if !isNoRows(err) {
		return nil, err
	}

	snack, err := queries.GetSnackForUser(ctx, database.GetSnackForUserParams{SnackID: itemID, UserID: userID})
	if err != nil {
		return nil, err
	}
	return &storedItem{item: snackToPlanItem(snack), dayPlanID: snack.DayPlanID}, nil
}

// settingsForItem prefers the plan's frozen profile snapshot so edits are
// judged against the profile the plan was generated with. Standalone snacks
// fall back to the live profile.
func settingsForItem(ctx context.Context, stored *storedItem, userID pgtype.UUID) mealplan.Settings {
	if stored.dayPlanID.Valid {
		plan, err := queries.GetWeekPlanByDayPlan(ctx, stored.dayPlanID)
		if err == nil {
			if settings, ok := decodeSnapshot(plan.ProfileSnapshot); ok {
				return settings
			}
		} else {
			log.Warn().Err(err).Msg("Failed to load plan snapshot, using live profile")
		}
	}

	profile, err := queries.GetUserProfile(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Msg("No profile available for edit context")
		return mealplan.Settings{PrimaryGoal: mealplan.GoalGeneralHealth}
	}
	return profileToSettings(profile)
}

// persistItemUpdate writes the item and, when it belongs to a day plan,
// recomputes that day's totals from every stored item inside the same
// transaction. Totals are never delta-adjusted.
func persistItemUpdate(ctx context.Context, stored *storedItem) error {
	tx, err := dbpool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	qtx := queries.WithTx(tx)
	item := stored.item

	itemID, err := utility.StringToPgtypeUUID(item.ID)
	if err != nil {
		return err
	}

	switch item.Kind {
	case mealplan.KindMeal:
		_, err = qtx.UpdateMeal(ctx, database.UpdateMealParams{
			MealID:               itemID,
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
		})
	case mealplan.KindSnack:
		_, err = qtx.UpdateSnack(ctx, database.UpdateSnackParams{
			SnackID:              itemID,
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
		})
	}
	if err != nil {
		return err
	}

	if stored.dayPlanID.Valid {
		if err := recomputeDayTotals(ctx, qtx, stored.dayPlanID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// recomputeDayTotals sums every meal and snack of the day and stores the
// result.
func recomputeDayTotals(ctx context.Context, qtx *database.Queries, dayPlanID pgtype.UUID) error {
	meals, err := qtx.ListMealsByDayPlan(ctx, dayPlanID)
	if err != nil {
		return err
	}
	snacks, err := qtx.ListSnacksByDayPlan(ctx, dayPlanID)
	if err != nil {
		return err
	}

	items := make([]mealplan.PlanItem, 0, len(meals)+len(snacks))
	for _, m := range meals {
		items = append(items, mealToPlanItem(m))
	}
	for _, s := range snacks {
		items = append(items, snackToPlanItem(s))
	}
	totals := mealplan.SumMacros(items)

	return qtx.UpdateDayPlanTotals(ctx, database.UpdateDayPlanTotalsParams{
		DayPlanID:     dayPlanID,
		TotalCalories: utility.FloatToNumeric(totals.Calories),
		TotalProtein:  utility.FloatToNumeric(totals.Protein),
		TotalCarbs:    utility.FloatToNumeric(totals.Carbs),
		TotalFat:      utility.FloatToNumeric(totals.Fat),
		TotalFiber:    utility.FloatToNumeric(totals.Fiber),
	})
}

func decodeSnapshot(raw []byte) (mealplan.Settings, bool) {
	var settings mealplan.Settings
	if len(raw) == 0 {
		return settings, false
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		log.Warn().Err(err).Msg("Failed to decode profile snapshot")
		return settings, false
	}
	return settings, true
}
