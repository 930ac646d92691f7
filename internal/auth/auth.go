package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"nutriplan/internal/database"
	"nutriplan/internal/utility"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 30 * 24 * time.Hour
)

var queries *database.Queries

type JwtCustomClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

type SignupRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func InitAuth(dbpool *pgxpool.Pool) error {
	queries = database.New(dbpool)

	if os.Getenv("SESSION_SECRET") == "" {
		return fmt.Errorf("SESSION_SECRET environment variable is not set")
	}
	return nil
}

// SignupHandler handles user registration
func SignupHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Password must be at least 8 characters"})
	}

	emailExists, err := queries.CheckEmailExists(ctx, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("Error checking email")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if emailExists {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Error hashing password")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	user, err := queries.CreateUser(ctx, database.CreateUserParams{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		log.Error().Err(err).Msg("Error creating user")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	log.Info().Str("email", user.Email).Msg("New user registered")
	return issueTokens(c, http.StatusCreated, user)
}

// LoginHandler handles email/password login
func LoginHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}

	user, err := queries.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Error().Err(err).Msg("Error fetching user")
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Str("email", req.Email).Msg("Failed login attempt")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	return issueTokens(c, http.StatusOK, user)
}

// RefreshHandler exchanges a valid refresh token for a fresh token pair.
func RefreshHandler(c echo.Context) error {
	ctx := c.Request().Context()

	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No refresh token provided"})
	}
	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := parseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired refresh token"})
	}

	user, err := fetchUser(ctx, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found"})
	}

	return issueTokens(c, http.StatusOK, user)
}

// JwtAuthMiddleware requires a valid access token and stores the user id in
// the echo context for handlers.
func JwtAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing authorization token"})
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := parseToken(tokenString)
		if err != nil || claims.TokenType != "access" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		c.Set("user_id", claims.UserID)
		return next(c)
	}
}

// Helper functions

func issueTokens(c echo.Context, status int, user database.User) error {
	userID := utility.UuidToString(user.UserID)

	accessToken, err := signToken(userID, user.Email, "access", AccessTokenDuration)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error generating access token"})
	}
	refreshToken, err := signToken(userID, user.Email, "refresh", RefreshTokenDuration)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error generating refresh token"})
	}

	return c.JSON(status, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(AccessTokenDuration.Seconds()),
		User:         UserResponse{UserID: userID, Email: user.Email},
	})
}

func signToken(userID, email, tokenType string, ttl time.Duration) (string, error) {
	claims := &JwtCustomClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "nutriplan",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("SESSION_SECRET")))
}

func parseToken(tokenString string) (*JwtCustomClaims, error) {
	sessionSecret := os.Getenv("SESSION_SECRET")
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(sessionSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	return claims, nil
}

func fetchUser(ctx context.Context, userID string) (database.User, error) {
	uid, err := utility.StringToPgtypeUUID(userID)
	if err != nil {
		return database.User{}, err
	}
	return queries.GetUserByID(ctx, uid)
}
