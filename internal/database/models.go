package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	UserID       pgtype.UUID        `json:"user_id"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"-"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type UserProfile struct {
	UserID              pgtype.UUID        `json:"user_id"`
	PrimaryGoal         string             `json:"primary_goal"`
	WeightKg            pgtype.Numeric     `json:"weight_kg"`
	HeightCm            pgtype.Numeric     `json:"height_cm"`
	Age                 int32              `json:"age"`
	Sex                 string             `json:"sex"`
	CulturalCuisines    []string           `json:"cultural_cuisines"`
	Location            string             `json:"location"`
	DietaryRestrictions []string           `json:"dietary_restrictions"`
	FoodDislikes        []string           `json:"food_dislikes"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}

type WeekPlan struct {
	PlanID          pgtype.UUID        `json:"plan_id"`
	UserID          pgtype.UUID        `json:"user_id"`
	StartDate       pgtype.Date        `json:"start_date"`
	EndDate         pgtype.Date        `json:"end_date"`
	PrimaryGoal     string             `json:"primary_goal"`
	Status          string             `json:"status"`
	CustomPrompt    string             `json:"custom_prompt"`
	ProfileSnapshot []byte             `json:"profile_snapshot"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type DayPlan struct {
	DayPlanID     pgtype.UUID    `json:"day_plan_id"`
	PlanID        pgtype.UUID    `json:"plan_id"`
	DayIndex      int32          `json:"day_index"`
	PlanDate      pgtype.Date    `json:"plan_date"`
	TotalCalories pgtype.Numeric `json:"total_calories"`
	TotalProtein  pgtype.Numeric `json:"total_protein"`
	TotalCarbs    pgtype.Numeric `json:"total_carbs"`
	TotalFat      pgtype.Numeric `json:"total_fat"`
	TotalFiber    pgtype.Numeric `json:"total_fiber"`
}

type Meal struct {
	MealID               pgtype.UUID    `json:"meal_id"`
	DayPlanID            pgtype.UUID    `json:"day_plan_id"`
	MealType             string         `json:"meal_type"`
	Name                 string         `json:"name"`
	Ingredients          []byte         `json:"ingredients"`
	Instructions         string         `json:"instructions"`
	Calories             pgtype.Numeric `json:"calories"`
	Protein              pgtype.Numeric `json:"protein"`
	Carbs                pgtype.Numeric `json:"carbs"`
	Fat                  pgtype.Numeric `json:"fat"`
	Fiber                pgtype.Numeric `json:"fiber"`
	NutritionalReasoning string         `json:"nutritional_reasoning"`
	ScientificSources    []string       `json:"scientific_sources"`
	PrepTimeMinutes      int32          `json:"prep_time_minutes"`
	EditHistory          []byte         `json:"edit_history"`
}

type Snack struct {
	SnackID              pgtype.UUID    `json:"snack_id"`
	DayPlanID            pgtype.UUID    `json:"day_plan_id"`
	UserID               pgtype.UUID    `json:"user_id"`
	SnackType            string         `json:"snack_type"`
	Name                 string         `json:"name"`
	Ingredients          []byte         `json:"ingredients"`
	Instructions         string         `json:"instructions"`
	Calories             pgtype.Numeric `json:"calories"`
	Protein              pgtype.Numeric `json:"protein"`
	Carbs                pgtype.Numeric `json:"carbs"`
	Fat                  pgtype.Numeric `json:"fat"`
	Fiber                pgtype.Numeric `json:"fiber"`
	NutritionalReasoning string         `json:"nutritional_reasoning"`
	ScientificSources    []string       `json:"scientific_sources"`
	PrepTimeMinutes      int32          `json:"prep_time_minutes"`
	Portability          string         `json:"portability"`
	IdealTiming          string         `json:"ideal_timing"`
	EditHistory          []byte         `json:"edit_history"`
}
