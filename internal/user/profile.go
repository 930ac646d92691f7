package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"nutriplan/internal/database"
	"nutriplan/internal/mealplan"
	"nutriplan/internal/utility"
)

/* =================================================================================
							PROFILE DTOs
=================================================================================*/

type ProfileRequest struct {
	PrimaryGoal         string   `json:"primary_goal"`
	WeightKg            float64  `json:"weight_kg"`
	HeightCm            float64  `json:"height_cm"`
	Age                 int      `json:"age"`
	Sex                 string   `json:"sex"`
	CulturalCuisines    []string `json:"cultural_cuisines"`
	Location            string   `json:"location"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	FoodDislikes        []string `json:"food_dislikes"`
}

type ProfileResponse struct {
	PrimaryGoal         string           `json:"primary_goal"`
	WeightKg            float64          `json:"weight_kg"`
	HeightCm            float64          `json:"height_cm"`
	Age                 int              `json:"age"`
	Sex                 string           `json:"sex"`
	CulturalCuisines    []string         `json:"cultural_cuisines"`
	Location            string           `json:"location"`
	DietaryRestrictions []string         `json:"dietary_restrictions"`
	FoodDislikes        []string         `json:"food_dislikes"`
	Targets             mealplan.Targets `json:"targets"`
}

func (r *ProfileRequest) validate() string {
	if !mealplan.ValidGoals[mealplan.Goal(r.PrimaryGoal)] {
		return "primary_goal must be one of: muscle_building, weight_loss, gut_health, mental_performance, general_health"
	}
	if r.Sex != string(mealplan.SexMale) && r.Sex != string(mealplan.SexFemale) {
		return "sex must be \"male\" or \"female\""
	}
	if r.WeightKg <= 0 || r.HeightCm <= 0 {
		return "weight_kg and height_cm must be positive"
	}
	if r.Age < 13 || r.Age > 120 {
		return "age must be between 13 and 120"
	}
	return ""
}

func profileResponse(p database.UserProfile) ProfileResponse {
	settings := profileToSettings(p)
	return ProfileResponse{
		PrimaryGoal:         p.PrimaryGoal,
		WeightKg:            settings.Biometrics.WeightKg,
		HeightCm:            settings.Biometrics.HeightCm,
		Age:                 settings.Biometrics.Age,
		Sex:                 p.Sex,
		CulturalCuisines:    settings.CulturalCuisines,
		Location:            p.Location,
		DietaryRestrictions: settings.DietaryRestrictions,
		FoodDislikes:        settings.FoodDislikes,
		Targets:             mealplan.CalculateTargets(settings.Biometrics, settings.PrimaryGoal),
	}
}

/* =================================================================================
							PROFILE HANDLERS
=================================================================================*/

// UpsertProfileHandler creates or replaces the caller's nutrition profile.
func UpsertProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", "")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, "Invalid profile", msg)
	}

	if req.CulturalCuisines == nil {
		req.CulturalCuisines = []string{}
	}
	if req.DietaryRestrictions == nil {
		req.DietaryRestrictions = []string{}
	}
	if req.FoodDislikes == nil {
		req.FoodDislikes = []string{}
	}

	profile, err := queries.UpsertUserProfile(ctx, database.UpsertUserProfileParams{
		UserID:              userID,
		PrimaryGoal:         req.PrimaryGoal,
		WeightKg:            utility.FloatToNumeric(req.WeightKg),
		HeightCm:            utility.FloatToNumeric(req.HeightCm),
		Age:                 int32(req.Age),
		Sex:                 req.Sex,
		CulturalCuisines:    req.CulturalCuisines,
		Location:            req.Location,
		DietaryRestrictions: req.DietaryRestrictions,
		FoodDislikes:        req.FoodDislikes,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to upsert profile")
		return respondError(c, http.StatusInternalServerError, "Failed to save profile", "")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"profile": profileResponse(profile),
	})
}

// GetProfileHandler returns the caller's profile plus derived calorie targets.
func GetProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized", "")
	}

	profile, err := queries.GetUserProfile(ctx, userID)
	if err != nil {
		if isNoRows(err) {
			return respondError(c, http.StatusNotFound, "Profile not found", "Create a profile before generating plans")
		}
		log.Error().Err(err).Msg("Failed to fetch profile")
		return respondError(c, http.StatusInternalServerError, "Failed to fetch profile", "")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"profile": profileResponse(profile),
	})
}
