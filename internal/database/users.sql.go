package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createUser = `
INSERT INTO users (email, password_hash)
VALUES ($1, $2)
RETURNING user_id, email, password_hash, created_at
`

type CreateUserParams struct {
	Email        string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.Email, arg.PasswordHash)
	var i User
	err := row.Scan(&i.UserID, &i.Email, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const getUserByEmail = `
SELECT user_id, email, password_hash, created_at FROM users WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(&i.UserID, &i.Email, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const getUserByID = `
SELECT user_id, email, password_hash, created_at FROM users WHERE user_id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, userID pgtype.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, userID)
	var i User
	err := row.Scan(&i.UserID, &i.Email, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const checkEmailExists = `
SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
`

func (q *Queries) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	row := q.db.QueryRow(ctx, checkEmailExists, email)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const upsertUserProfile = `
INSERT INTO user_profiles (
    user_id, primary_goal, weight_kg, height_cm, age, sex,
    cultural_cuisines, location, dietary_restrictions, food_dislikes, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
ON CONFLICT (user_id) DO UPDATE SET
    primary_goal = EXCLUDED.primary_goal,
    weight_kg = EXCLUDED.weight_kg,
    height_cm = EXCLUDED.height_cm,
    age = EXCLUDED.age,
    sex = EXCLUDED.sex,
    cultural_cuisines = EXCLUDED.cultural_cuisines,
    location = EXCLUDED.location,
    dietary_restrictions = EXCLUDED.dietary_restrictions,
    food_dislikes = EXCLUDED.food_dislikes,
    updated_at = now()
RETURNING user_id, primary_goal, weight_kg, height_cm, age, sex,
    cultural_cuisines, location, dietary_restrictions, food_dislikes, updated_at
`

type UpsertUserProfileParams struct {
	UserID              pgtype.UUID
	PrimaryGoal         string
	WeightKg            pgtype.Numeric
	HeightCm            pgtype.Numeric
	Age                 int32
	Sex                 string
	CulturalCuisines    []string
	Location            string
	DietaryRestrictions []string
	FoodDislikes        []string
}

func (q *Queries) UpsertUserProfile(ctx context.Context, arg UpsertUserProfileParams) (UserProfile, error) {
	row := q.db.QueryRow(ctx, upsertUserProfile,
		arg.UserID,
		arg.PrimaryGoal,
		arg.WeightKg,
		arg.HeightCm,
		arg.Age,
		arg.Sex,
		arg.CulturalCuisines,
		arg.Location,
		arg.DietaryRestrictions,
		arg.FoodDislikes,
	)
	var i UserProfile
	err := row.Scan(
		&i.UserID,
		&i.PrimaryGoal,
		&i.WeightKg,
		&i.HeightCm,
		&i.Age,
		&i.Sex,
		&i.CulturalCuisines,
		&i.Location,
		&i.DietaryRestrictions,
		&i.FoodDislikes,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserProfile = `
SELECT user_id, primary_goal, weight_kg, height_cm, age, sex,
    cultural_cuisines, location, dietary_restrictions, food_dislikes, updated_at
FROM user_profiles WHERE user_id = $1
`

func (q *Queries) GetUserProfile(ctx context.Context, userID pgtype.UUID) (UserProfile, error) {
	row := q.db.QueryRow(ctx, getUserProfile, userID)
	var i UserProfile
	err := row.Scan(
		&i.UserID,
		&i.PrimaryGoal,
		&i.WeightKg,
		&i.HeightCm,
		&i.Age,
		&i.Sex,
		&i.CulturalCuisines,
		&i.Location,
		&i.DietaryRestrictions,
		&i.FoodDislikes,
		&i.UpdatedAt,
	)
	return i, err
}
