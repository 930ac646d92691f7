package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"nutriplan/internal/database"
	"nutriplan/internal/mealplan"
	"nutriplan/internal/utility"
)

/* =================================================================================
							PLAN DTOs
=================================================================================*/

type GeneratePlanRequest struct {
	CustomPrompt string `json:"custom_prompt"`
}

// UpdatePlanRequest carries the plan metadata a caller may change. Omitted
// fields keep their stored values.
type UpdatePlanRequest struct {
	Status      string `json:"status"`
	PrimaryGoal string `json:"primary_goal"`
}

type DayResponse struct {
	DayPlanID   string              `json:"day_plan_id"`
	DayIndex    int                 `json:"day_index"`
	Date        string              `json:"date"`
	Meals       []mealplan.PlanItem `json:"meals"`
	Snacks      []mealplan.PlanItem `json:"snacks"`
	DailyTotals mealplan.Macros     `json:"daily_totals"`
}

type PlanResponse struct {
	PlanID       string        `json:"plan_id"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	PrimaryGoal  string        `json:"primary_goal"`
	Status       string        `json:"status"`
	CustomPrompt string        `json:"custom_prompt,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	Days         []DayResponse `json:"days"`
}

type PlanSummary struct {
	PlanID      string    `json:"plan_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	PrimaryGoal string    `json:"primary_goal"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

const dateLayout = "2006-01-02"

func planSummary(p database.WeekPlan) PlanSummary {
	return PlanSummary{
		PlanID:      utility.UuidToString(p.PlanID),
		StartDate:   p.StartDate.Time.Format(dateLayout),
		EndDate:     p.EndDate.Time.Format(dateLayout),
		PrimaryGoal: p.PrimaryGoal,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt.Time,
	}
}

/* =================================================================================
							PLAN HANDLERS
=================================================================================*/

// GeneratePlanHandler runs full-day generation for the caller's profile and
// persists the result atomically. Nothing is written until the whole day has
// validated.
func GeneratePlanHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}

	var req GeneratePlanRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", "")
	}

	profile, err := queries.GetUserProfile(ctx, userID)
	if err != nil {
		if isNoRows(err) {
			return respondError(c, http.StatusBadRequest, "Profile not found", "Create a profile before generating plans")
		}
		log.Error().Err(err).Msg("Failed to fetch profile")
		return respondError(c, http.StatusInternalServerError, "Failed to fetch profile", "")
	}
	settings := profileToSettings(profile)

	day, err := pipeline.GenerateDayPlan(ctx, settings, req.CustomPrompt)
	if err != nil {
		return respondPipelineError(c, err)
	}

	response, err := persistGeneratedDay(ctx, userID, settings, req.CustomPrompt, day)
	if err != nil {
		log.Error().Err(err).Msg("Failed to persist generated plan")
		return respondError(c, http.StatusInternalServerError, "Failed to save plan", "")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"plan":    response,
	})
}

// persistGeneratedDay writes the plan, its day, and every item in a single
// transaction so a half-saved plan is impossible.
func persistGeneratedDay(ctx context.Context, userID pgtype.UUID, settings mealplan.Settings, customPrompt string, day *mealplan.GeneratedDay) (*PlanResponse, error) {
	snapshot, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}

	tx, err := dbpool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	qtx := queries.WithTx(tx)

	// A generated plan currently covers one day, so start and end coincide.
	today := pgtype.Date{Time: time.Now().UTC().Truncate(24 * time.Hour), Valid: true}

	plan, err := qtx.CreateWeekPlan(ctx, database.CreateWeekPlanParams{
		UserID:          userID,
		StartDate:       today,
		EndDate:         today,
		PrimaryGoal:     string(settings.PrimaryGoal),
		Status:          "complete",
		CustomPrompt:    customPrompt,
		ProfileSnapshot: snapshot,
	})
	if err != nil {
		return nil, err
	}

	dayPlan, err := qtx.CreateDayPlan(ctx, database.CreateDayPlanParams{
		PlanID:        plan.PlanID,
		DayIndex:      0,
		PlanDate:      today,
		TotalCalories: utility.FloatToNumeric(day.DailyTotals.Calories),
		TotalProtein:  utility.FloatToNumeric(day.DailyTotals.Protein),
		TotalCarbs:    utility.FloatToNumeric(day.DailyTotals.Carbs),
		TotalFat:      utility.FloatToNumeric(day.DailyTotals.Fat),
		TotalFiber:    utility.FloatToNumeric(day.DailyTotals.Fiber),
	})
	if err != nil {
		return nil, err
	}

	for _, meal := range day.Meals {
		params, err := createMealParams(dayPlan.DayPlanID, meal)
		if err != nil {
			return nil, err
		}
		if _, err := qtx.CreateMeal(ctx, params); err != nil {
			return nil, err
		}
	}
	for _, snack := range day.Snacks {
		params, err := createSnackParams(dayPlan.DayPlanID, userID, snack)
		if err != nil {
			return nil, err
		}
		if _, err := qtx.CreateSnack(ctx, params); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &PlanResponse{
		PlanID:       utility.UuidToString(plan.PlanID),
		StartDate:    plan.StartDate.Time.Format(dateLayout),
		EndDate:      plan.EndDate.Time.Format(dateLayout),
		PrimaryGoal:  plan.PrimaryGoal,
		Status:       plan.Status,
		CustomPrompt: plan.CustomPrompt,
		CreatedAt:    plan.CreatedAt.Time,
		Days: []DayResponse{{
			DayPlanID:   utility.UuidToString(dayPlan.DayPlanID),
			DayIndex:    0,
			Date:        dayPlan.PlanDate.Time.Format(dateLayout),
			Meals:       day.Meals,
			Snacks:      day.Snacks,
			DailyTotals: day.DailyTotals,
		}},
	}, nil
}

// ListPlansHandler returns the caller's plans, most recent first. The limit
// query parameter caps the page size (default 20).
func ListPlansHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}

	limit := utility.ParseIntParam(c.QueryParam("limit"), 20)
	plans, err := queries.ListWeekPlansByUser(ctx, database.ListWeekPlansByUserParams{
		UserID: userID,
		Limit:  int32(limit),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list plans")
		return respondError(c, http.StatusInternalServerError, "Failed to list plans", "")
	}

	summaries := make([]PlanSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, planSummary(p))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"plans":   summaries,
	})
}

// GetPlanHandler returns one plan with all days and items.
func GetPlanHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}
	planID, err := utility.StringToPgtypeUUID(c.Param("plan_id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid plan id", "")
	}

	plan, err := queries.GetWeekPlan(ctx, database.GetWeekPlanParams{PlanID: planID, UserID: userID})
	if err != nil {
		if isNoRows(err) {
			return respondError(c, http.StatusNotFound, "Plan not found", "")
		}
		log.Error().Err(err).Msg("Failed to fetch plan")
		return respondError(c, http.StatusInternalServerError, "Failed to fetch plan", "")
	}

	dayPlans, err := queries.ListDayPlansByWeekPlan(ctx, plan.PlanID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch day plans")
		return respondError(c, http.StatusInternalServerError, "Failed to fetch plan", "")
	}

	days := make([]DayResponse, len(dayPlans))
	g, gctx := errgroup.WithContext(ctx)
	for i, dp := range dayPlans {
		i, dp := i, dp
		g.Go(func() error {
			day, err := loadDayResponse(gctx, dp)
			if err != nil {
				return err
			}
			days[i] = *day
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Failed to fetch plan items")
		return respondError(c, http.StatusInternalServerError, "Failed to fetch plan", "")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"plan": PlanResponse{
			PlanID:       utility.UuidToString(plan.PlanID),
			StartDate:    plan.StartDate.Time.Format(dateLayout),
			EndDate:      plan.EndDate.Time.Format(dateLayout),
			PrimaryGoal:  plan.PrimaryGoal,
			Status:       plan.Status,
			CustomPrompt: plan.CustomPrompt,
			CreatedAt:    plan.CreatedAt.Time,
			Days:         days,
		},
	})
}

func loadDayResponse(ctx context.Context, dp database.DayPlan) (*DayResponse, error) {
	meals, err := queries.ListMealsByDayPlan(ctx, dp.DayPlanID)
	if err != nil {
		return nil, err
	}
	snacks, err := queries.ListSnacksByDayPlan(ctx, dp.DayPlanID)
	if err != nil {
		return nil, err
	}

	day := &DayResponse{
		DayPlanID: utility.UuidToString(dp.DayPlanID),
		DayIndex:  int(dp.DayIndex),
		Date:      dp.PlanDate.Time.Format(dateLayout),
		Meals:     make([]mealplan.PlanItem, 0, len(meals)),
		Snacks:    make([]mealplan.PlanItem, 0, len(snacks)),
		DailyTotals: mealplan.Macros{
			Calories: utility.NumericToFloat(dp.TotalCalories),
			Protein:  utility.NumericToFloat(dp.TotalProtein),
			Carbs:    utility.NumericToFloat(dp.TotalCarbs),
			Fat:      utility.NumericToFloat(dp.TotalFat),
			Fiber:    utility.NumericToFloat(dp.TotalFiber),
		},
	}
	for _, m := range meals {
		day.Meals = append(day.Meals, mealToPlanItem(m))
	}
	for _, s := range snacks {
		day.Snacks = append(day.Snacks, snackToPlanItem(s))
	}
	return day, nil
}

// UpdatePlanHandler changes plan metadata (status, goal label). Generated
// content and the frozen profile snapshot cannot be changed here.
func UpdatePlanHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}
	planID, err := utility.StringToPgtypeUUID(c.Param("plan_id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid plan id", "")
	}

	var req UpdatePlanRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", "")
	}
	if req.Status == "" && req.PrimaryGoal == "" {
		return respondError(c, http.StatusBadRequest, "Nothing to update", "Provide status and/or primary_goal")
	}
	if req.Status != "" && req.Status != "incomplete" && req.Status != "complete" {
		return respondError(c, http.StatusBadRequest, "Invalid status", "status must be \"incomplete\" or \"complete\"")
	}
	if req.PrimaryGoal != "" && !mealplan.ValidGoals[mealplan.Goal(req.PrimaryGoal)] {
		return respondError(c, http.StatusBadRequest, "Invalid goal", "primary_goal is not a recognized goal")
	}

	plan, err := queries.GetWeekPlan(ctx, database.GetWeekPlanParams{PlanID: planID, UserID: userID})
	if err != nil {
		if isNoRows(err) {
			return respondError(c, http.StatusNotFound, "Plan not found", "")
		}
		log.Error().Err(err).Msg("Failed to fetch plan")
		return respondError(c, http.StatusInternalServerError, "Failed to update plan", "")
	}

	status := plan.Status
	if req.Status != "" {
		status = req.Status
	}
	goal := plan.PrimaryGoal
	if req.PrimaryGoal != "" {
		goal = req.PrimaryGoal
	}

	updated, err := queries.UpdateWeekPlanMeta(ctx, database.UpdateWeekPlanMetaParams{
		PlanID:      planID,
		UserID:      userID,
		Status:      status,
		PrimaryGoal: goal,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to update plan")
		return respondError(c, http.StatusInternalServerError, "Failed to update plan", "")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"plan":    planSummary(updated),
	})
}

// DeletePlanHandler removes a plan and everything under it.
func DeletePlanHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}
	planID, err := utility.StringToPgtypeUUID(c.Param("plan_id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid plan id", "")
	}

	affected, err := queries.DeleteWeekPlan(ctx, database.DeleteWeekPlanParams{PlanID: planID, UserID: userID})
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete plan")
		return respondError(c, http.StatusInternalServerError, "Failed to delete plan", "")
	}
	if affected == 0 {
		return respondError(c, http.StatusNotFound, "Plan not found", "")
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
