package user

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"nutriplan/internal/database"
	"nutriplan/internal/mealplan"
	"nutriplan/internal/utility"
)

type GenerateSnackRequest struct {
	Timing        string `json:"timing"` // "morning", "afternoon", "evening"
	CalorieTarget int    `json:"calorie_target"`
	Preference    string `json:"preference"`
	DayPlanID     string `json:"day_plan_id"` // optional: attach to an existing day
}

var validSnackTimings = map[string]bool{
	"morning":   true,
	"afternoon": true,
	"evening":   true,
}

// GenerateSnackHandler produces one snack for a timing slot. With a
// day_plan_id the snack joins that day and the day's totals are recomputed;
// without one it is stored standalone.
func GenerateSnackHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}

	var req GenerateSnackRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", "")
	}
	if !validSnackTimings[req.Timing] {
		return respondError(c, http.StatusBadRequest, "Invalid timing", "timing must be \"morning\", \"afternoon\", or \"evening\"")
	}
	if req.CalorieTarget <= 0 {
		return respondError(c, http.StatusBadRequest, "Invalid calorie target", "calorie_target must be positive")
	}

	// Verify ownership of the target day before spending a generation call.
	var dayPlanID pgtype.UUID
	if req.DayPlanID != "" {
		dayPlanID, err = utility.StringToPgtypeUUID(req.DayPlanID)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid day plan id", "")
		}
		if _, err := queries.GetDayPlanForUser(ctx, database.GetDayPlanForUserParams{DayPlanID: dayPlanID, UserID: userID}); err != nil {
			if isNoRows(err) {
				return respondError(c, http.StatusNotFound, "Day plan not found", "")
			}
			log.Error().Err(err).Msg("Failed to fetch day plan")
			return respondError(c, http.StatusInternalServerError, "Failed to fetch day plan", "")
		}
	}

	settings := snackSettings(c, userID)

	snack, err := pipeline.GenerateSnack(ctx, settings, mealplan.SnackPreferences{
		Timing:        req.Timing,
		CalorieTarget: req.CalorieTarget,
		Preference:    req.Preference,
	})
	if err != nil {
		return respondPipelineError(c, err)
	}

	if err := persistSnack(ctx, userID, dayPlanID, snack); err != nil {
		log.Error().Err(err).Msg("Failed to persist snack")
		return respondError(c, http.StatusInternalServerError, "Failed to save snack", "")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"snack":   snack,
	})
}

func snackSettings(c echo.Context, userID pgtype.UUID) mealplan.Settings {
	profile, err := queries.GetUserProfile(c.Request().Context(), userID)
	if err != nil {
		log.Warn().Err(err).Msg("No profile available for snack generation")
		return mealplan.Settings{PrimaryGoal: mealplan.GoalGeneralHealth}
	}
	return profileToSettings(profile)
}

func persistSnack(ctx context.Context, userID, dayPlanID pgtype.UUID, snack *mealplan.PlanItem) error {
	tx, err := dbpool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	qtx := queries.WithTx(tx)

	params, err := createSnackParams(dayPlanID, userID, *snack)
	if err != nil {
		return err
	}
	if _, err := qtx.CreateSnack(ctx, params); err != nil {
		return err
	}

	if dayPlanID.Valid {
		if err := recomputeDayTotals(ctx, qtx, dayPlanID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
