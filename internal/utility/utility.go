package utility

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
)

// GetUserIDFromContext safely retrieves user ID from Echo context
func GetUserIDFromContext(c echo.Context) (string, error) {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ParseIntParam parses a query parameter, falling back to a default.
func ParseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func UuidToString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	u, err := uuid.FromBytes(id.Bytes[:])
	if err != nil {
		return ""
	}
	return u.String()
}

// StringToPgtypeUUID parses a canonical UUID string into a pgtype.UUID.
func StringToPgtypeUUID(s string) (pgtype.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("failed to parse UUID: %w", err)
	}
	return pgtype.UUID{Bytes: u, Valid: true}, nil
}

// NumericToFloat converts a pgtype.Numeric to float64, 0 when NULL/invalid.
func NumericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid || n.Int == nil {
		return 0
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0
	}
	return f.Float64
}

// FloatToNumeric converts a float64 into a pgtype.Numeric column value.
func FloatToNumeric(f float64) pgtype.Numeric {
	var n pgtype.Numeric
	// Scan accepts the decimal string representation.
	if err := n.Scan(strconv.FormatFloat(f, 'f', -1, 64)); err != nil {
		return pgtype.Numeric{Int: big.NewInt(0), Valid: true}
	}
	return n
}

