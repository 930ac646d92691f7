package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const weekPlanColumns = `plan_id, user_id, start_date, end_date, primary_goal, status,
    custom_prompt, profile_snapshot, created_at, updated_at`

const dayPlanColumns = `day_plan_id, plan_id, day_index, plan_date,
    total_calories, total_protein, total_carbs, total_fat, total_fiber`

const createWeekPlan = `
INSERT INTO week_plans (user_id, start_date, end_date, primary_goal, status, custom_prompt, profile_snapshot)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + weekPlanColumns

type CreateWeekPlanParams struct {
	UserID          pgtype.UUID
	StartDate       pgtype.Date
	EndDate         pgtype.Date
	PrimaryGoal     string
	Status          string
	CustomPrompt    string
	ProfileSnapshot []byte
}

func (q *Queries) CreateWeekPlan(ctx context.Context, arg CreateWeekPlanParams) (WeekPlan, error) {
	row := q.db.QueryRow(ctx, createWeekPlan,
		arg.UserID, arg.StartDate, arg.EndDate, arg.PrimaryGoal, arg.Status, arg.CustomPrompt, arg.ProfileSnapshot)
	return scanWeekPlan(row)
}

const listWeekPlansByUser = `
SELECT ` + weekPlanColumns + `
FROM week_plans
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`

type ListWeekPlansByUserParams struct {
	UserID pgtype.UUID
	Limit  int32
}

func (q *Queries) ListWeekPlansByUser(ctx context.Context, arg ListWeekPlansByUserParams) ([]WeekPlan, error) {
	rows, err := q.db.Query(ctx, listWeekPlansByUser, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WeekPlan
	for rows.Next() {
		i, err := scanWeekPlan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getWeekPlan = `
SELECT ` + weekPlanColumns + `
FROM week_plans
WHERE plan_id = $1 AND user_id = $2
`

type GetWeekPlanParams struct {
	PlanID pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) GetWeekPlan(ctx context.Context, arg GetWeekPlanParams) (WeekPlan, error) {
	row := q.db.QueryRow(ctx, getWeekPlan, arg.PlanID, arg.UserID)
	return scanWeekPlan(row)
}

const updateWeekPlanMeta = `
UPDATE week_plans SET status = $3, primary_goal = $4, updated_at = now()
WHERE plan_id = $1 AND user_id = $2
RETURNING ` + weekPlanColumns

type UpdateWeekPlanMetaParams struct {
	PlanID      pgtype.UUID
	UserID      pgtype.UUID
	Status      string
	PrimaryGoal string
}

// UpdateWeekPlanMeta touches only plan metadata. Generated content and the
// profile snapshot are immutable through this path.
func (q *Queries) UpdateWeekPlanMeta(ctx context.Context, arg UpdateWeekPlanMetaParams) (WeekPlan, error) {
	row := q.db.QueryRow(ctx, updateWeekPlanMeta, arg.PlanID, arg.UserID, arg.Status, arg.PrimaryGoal)
	return scanWeekPlan(row)
}

const deleteWeekPlan = `
DELETE FROM week_plans WHERE plan_id = $1 AND user_id = $2
`

type DeleteWeekPlanParams struct {
	PlanID pgtype.UUID
	UserID pgtype.UUID
}

// DeleteWeekPlan removes the plan; day plans, meals, and attached snacks go
// with it via ON DELETE CASCADE.
func (q *Queries) DeleteWeekPlan(ctx context.Context, arg DeleteWeekPlanParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteWeekPlan, arg.PlanID, arg.UserID)
	return tag.RowsAffected(), err
}

const createDayPlan = `
INSERT INTO day_plans (plan_id, day_index, plan_date, total_calories, total_protein, total_carbs, total_fat, total_fiber)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + dayPlanColumns

type CreateDayPlanParams struct {
	PlanID        pgtype.UUID
	DayIndex      int32
	PlanDate      pgtype.Date
	TotalCalories pgtype.Numeric
	TotalProtein  pgtype.Numeric
	TotalCarbs    pgtype.Numeric
	TotalFat      pgtype.Numeric
	TotalFiber    pgtype.Numeric
}

func (q *Queries) CreateDayPlan(ctx context.Context, arg CreateDayPlanParams) (DayPlan, error) {
	row := q.db.QueryRow(ctx, createDayPlan,
		arg.PlanID, arg.DayIndex, arg.PlanDate, arg.TotalCalories, arg.TotalProtein, arg.TotalCarbs, arg.TotalFat, arg.TotalFiber)
	return scanDayPlan(row)
}

const listDayPlansByWeekPlan = `
SELECT ` + dayPlanColumns + `
FROM day_plans
WHERE plan_id = $1
ORDER BY day_index
`

func (q *Queries) ListDayPlansByWeekPlan(ctx context.Context, planID pgtype.UUID) ([]DayPlan, error) {
	rows, err := q.db.Query(ctx, listDayPlansByWeekPlan, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DayPlan
	for rows.Next() {
		i, err := scanDayPlan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getDayPlanForUser = `
SELECT d.day_plan_id, d.plan_id, d.day_index, d.plan_date,
    d.total_calories, d.total_protein, d.total_carbs, d.total_fat, d.total_fiber
FROM day_plans d
JOIN week_plans w ON w.plan_id = d.plan_id
WHERE d.day_plan_id = $1 AND w.user_id = $2
`

type GetDayPlanForUserParams struct {
	DayPlanID pgtype.UUID
	UserID    pgtype.UUID
}

func (q *Queries) GetDayPlanForUser(ctx context.Context, arg GetDayPlanForUserParams) (DayPlan, error) {
	row := q.db.QueryRow(ctx, getDayPlanForUser, arg.DayPlanID, arg.UserID)
	return scanDayPlan(row)
}

const getWeekPlanByDayPlan = `
SELECT w.plan_id, w.user_id, w.start_date, w.end_date, w.primary_goal, w.status,
    w.custom_prompt, w.profile_snapshot, w.created_at, w.updated_at
FROM week_plans w
JOIN day_plans d ON d.plan_id = w.plan_id
WHERE d.day_plan_id = $1
`

func (q *Queries) GetWeekPlanByDayPlan(ctx context.Context, dayPlanID pgtype.UUID) (WeekPlan, error) {
	row := q.db.QueryRow(ctx, getWeekPlanByDayPlan, dayPlanID)
	return scanWeekPlan(row)
}

const updateDayPlanTotals = `
UPDATE day_plans SET total_calories = $2, total_protein = $3, total_carbs = $4, total_fat = $5, total_fiber = $6
WHERE day_plan_id = $1
`

type UpdateDayPlanTotalsParams struct {
	DayPlanID     pgtype.UUID
	TotalCalories pgtype.Numeric
	TotalProtein  pgtype.Numeric
	TotalCarbs    pgtype.Numeric
	TotalFat      pgtype.Numeric
	TotalFiber    pgtype.Numeric
}

func (q *Queries) UpdateDayPlanTotals(ctx context.Context, arg UpdateDayPlanTotalsParams) error {
	_, err := q.db.Exec(ctx, updateDayPlanTotals,
		arg.DayPlanID, arg.TotalCalories, arg.TotalProtein, arg.TotalCarbs, arg.TotalFat, arg.TotalFiber)
	return err
}

func scanWeekPlan(row rowScanner) (WeekPlan, error) {
	var i WeekPlan
	err := row.Scan(
		&i.PlanID, &i.UserID, &i.StartDate, &i.EndDate, &i.PrimaryGoal, &i.Status,
		&i.CustomPrompt, &i.ProfileSnapshot, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

func scanDayPlan(row rowScanner) (DayPlan, error) {
	var i DayPlan
	err := row.Scan(
		&i.DayPlanID, &i.PlanID, &i.DayIndex, &i.PlanDate,
		&i.TotalCalories, &i.TotalProtein, &i.TotalCarbs, &i.TotalFat, &i.TotalFiber,
	)
	return i, err
}
