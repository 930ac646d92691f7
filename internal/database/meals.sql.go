package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const mealColumns = `meal_id, day_plan_id, meal_type, name, ingredients, instructions,
    calories, protein, carbs, fat, fiber, nutritional_reasoning, scientific_sources,
    prep_time_minutes, edit_history`

const createMeal = `
INSERT INTO meals (
    meal_id, day_plan_id, meal_type, name, ingredients, instructions,
    calories, protein, carbs, fat, fiber, nutritional_reasoning, scientific_sources,
    prep_time_minutes, edit_history
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + mealColumns

type CreateMealParams struct {
	MealID               pgtype.UUID
	DayPlanID            pgtype.UUID
	MealType             string
	Name                 string
	Ingredients          []byte
	Instructions         string
	Calories             pgtype.Numeric
	Protein              pgtype.Numeric
	Carbs                pgtype.Numeric
	Fat                  pgtype.Numeric
	Fiber                pgtype.Numeric
	NutritionalReasoning string
	ScientificSources    []string
	PrepTimeMinutes      int32
	EditHistory          []byte
}

func (q *Queries) CreateMeal(ctx context.Context, arg CreateMealParams) (Meal, error) {
	row := q.db.QueryRow(ctx, createMeal,
		arg.MealID, arg.DayPlanID, arg.MealType, arg.Name, arg.Ingredients, arg.Instructions,
		arg.Calories, arg.Protein, arg.Carbs, arg.Fat, arg.Fiber, arg.NutritionalReasoning,
		arg.ScientificSources, arg.PrepTimeMinutes, arg.EditHistory)
	return scanMeal(row)
}

const listMealsByDayPlan = `
SELECT ` + mealColumns + `
FROM meals
WHERE day_plan_id = $1
ORDER BY CASE meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END
`

func (q *Queries) ListMealsByDayPlan(ctx context.Context, dayPlanID pgtype.UUID) ([]Meal, error) {
	rows, err := q.db.Query(ctx, listMealsByDayPlan, dayPlanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Meal
	for rows.Next() {
		i, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getMealForUser = `
SELECT m.meal_id, m.day_plan_id, m.meal_type, m.name, m.ingredients, m.instructions,
    m.calories, m.protein, m.carbs, m.fat, m.fiber, m.nutritional_reasoning, m.scientific_sources,
    m.prep_time_minutes, m.edit_history
FROM meals m
JOIN day_plans d ON d.day_plan_id = m.day_plan_id
JOIN week_plans w ON w.plan_id = d.plan_id
WHERE m.meal_id = $1 AND w.user_id = $2
`

type GetMealForUserParams struct {
	MealID pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) GetMealForUser(ctx context.Context, arg GetMealForUserParams) (Meal, error) {
	row := q.db.QueryRow(ctx, getMealForUser, arg.MealID, arg.UserID)
	return scanMeal(row)
}

const updateMeal = `
UPDATE meals SET
    name = $2, ingredients = $3, instructions = $4,
    calories = $5, protein = $6, carbs = $7, fat = $8, fiber = $9,
    nutritional_reasoning = $10, scientific_sources = $11, prep_time_minutes = $12,
    edit_history = $13
WHERE meal_id = $1
RETURNING ` + mealColumns

type UpdateMealParams struct {
	MealID               pgtype.UUID
	Name                 string
	Ingredients          []byte
	Instructions         string
	Calories             pgtype.Numeric
	Protein              pgtype.Numeric
	Carbs                pgtype.Numeric
	Fat                  pgtype.Numeric
	Fiber                pgtype.Numeric
	NutritionalReasoning string
	ScientificSources    []string
	PrepTimeMinutes      int32
	EditHistory          []byte
}

func (q *Queries) UpdateMeal(ctx context.Context, arg UpdateMealParams) (Meal, error) {
	row := q.db.QueryRow(ctx, updateMeal,
		arg.MealID, arg.Name, arg.Ingredients, arg.Instructions,
		arg.Calories, arg.Protein, arg.Carbs, arg.Fat, arg.Fiber,
		arg.NutritionalReasoning, arg.ScientificSources, arg.PrepTimeMinutes, arg.EditHistory)
	return scanMeal(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (Meal, error) {
	var i Meal
	err := row.Scan(
		&i.MealID, &i.DayPlanID, &i.MealType, &i.Name, &i.Ingredients, &i.Instructions,
		&i.Calories, &i.Protein, &i.Carbs, &i.Fat, &i.Fiber, &i.NutritionalReasoning,
		&i.ScientificSources, &i.PrepTimeMinutes, &i.EditHistory,
	)
	return i, err
}
