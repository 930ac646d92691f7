package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const snackColumns = `snack_id, day_plan_id, user_id, snack_type, name, ingredients, instructions,
    calories, protein, carbs, fat, fiber, nutritional_reasoning, scientific_sources,
    prep_time_minutes, portability, ideal_timing, edit_history`

const createSnack = `
INSERT INTO snacks (
    snack_id, day_plan_id, user_id, snack_type, name, ingredients, instructions,
    calories, protein, carbs, fat, fiber, nutritional_reasoning, scientific_sources,
    prep_time_minutes, portability, ideal_timing, edit_history
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
RETURNING ` + snackColumns

type CreateSnackParams struct {
	SnackID              pgtype.UUID
	DayPlanID            pgtype.UUID // invalid UUID means standalone snack
	UserID               pgtype.UUID
	SnackType            string
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
	Portability          string
	IdealTiming          string
	EditHistory          []byte
}

func (q *Queries) CreateSnack(ctx context.Context, arg CreateSnackParams) (Snack, error) {
	row := q.db.QueryRow(ctx, createSnack,
		arg.SnackID, arg.DayPlanID, arg.UserID, arg.SnackType, arg.Name, arg.Ingredients, arg.Instructions,
		arg.Calories, arg.Protein, arg.Carbs, arg.Fat, arg.Fiber, arg.NutritionalReasoning,
		arg.ScientificSources, arg.PrepTimeMinutes, arg.Portability, arg.IdealTiming, arg.EditHistory)
	return scanSnack(row)
}

const listSnacksByDayPlan = `
SELECT ` + snackColumns + `
FROM snacks
WHERE day_plan_id = $1
ORDER BY CASE snack_type WHEN 'morning_snack' THEN 0 WHEN 'afternoon_snack' THEN 1 ELSE 2 END
`

func (q *Queries) ListSnacksByDayPlan(ctx context.Context, dayPlanID pgtype.UUID) ([]Snack, error) {
	rows, err := q.db.Query(ctx, listSnacksByDayPlan, dayPlanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Snack
	for rows.Next() {
		i, err := scanSnack(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getSnackForUser = `
SELECT ` + snackColumns + `
FROM snacks
WHERE snack_id = $1 AND user_id = $2
`

type GetSnackForUserParams struct {
	SnackID pgtype.UUID
	UserID  pgtype.UUID
}

func (q *Queries) GetSnackForUser(ctx context.Context, arg GetSnackForUserParams) (Snack, error) {
	row := q.db.QueryRow(ctx, getSnackForUser, arg.SnackID, arg.UserID)
	return scanSnack(row)
}

const updateSnack = `
UPDATE snacks SET
    name = $2, ingredients = $3, instructions = $4,
    calories = $5, protein = $6, carbs = $7, fat = $8, fiber = $9,
    nutritional_reasoning = $10, scientific_sources = $11, prep_time_minutes = $12,
    portability = $13, ideal_timing = $14, edit_history = $15
WHERE snack_id = $1
RETURNING ` + snackColumns

type UpdateSnackParams struct {
	SnackID              pgtype.UUID
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
	Portability          string
	IdealTiming          string
	EditHistory          []byte
}

func (q *Queries) UpdateSnack(ctx context.Context, arg UpdateSnackParams) (Snack, error) {
	row := q.db.QueryRow(ctx, updateSnack,
		arg.SnackID, arg.Name, arg.Ingredients, arg.Instructions,
		arg.Calories, arg.Protein, arg.Carbs, arg.Fat, arg.Fiber,
		arg.NutritionalReasoning, arg.ScientificSources, arg.PrepTimeMinutes,
		arg.Portability, arg.IdealTiming, arg.EditHistory)
	return scanSnack(row)
}

func scanSnack(row rowScanner) (Snack, error) {
	var i Snack
	err := row.Scan(
		&i.SnackID, &i.DayPlanID, &i.UserID, &i.SnackType, &i.Name, &i.Ingredients, &i.Instructions,
		&i.Calories, &i.Protein, &i.Carbs, &i.Fat, &i.Fiber, &i.NutritionalReasoning,
		&i.ScientificSources, &i.PrepTimeMinutes, &i.Portability, &i.IdealTiming, &i.EditHistory,
	)
	return i, err
}
