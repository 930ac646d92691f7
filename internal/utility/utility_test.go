package utility

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUuidRoundTrip(t *testing.T) {
	id := uuid.New()
	pg, err := StringToPgtypeUUID(id.String())
	require.NoError(t, err)
	assert.True(t, pg.Valid)
	assert.Equal(t, id.String(), UuidToString(pg))
}

func TestStringToPgtypeUUIDInvalid(t *testing.T) {
	_, err := StringToPgtypeUUID("not-a-uuid")
	assert.Error(t, err)
}

func TestUuidToStringInvalid(t *testing.T) {
	assert.Equal(t, "", UuidToString(pgtype.UUID{}))
}

func TestNumericRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, 2473.125, 180.5, 0.1} {
		n := FloatToNumeric(f)
		require.True(t, n.Valid)
		assert.InDelta(t, f, NumericToFloat(n), 0.0001)
	}
}

func TestNumericToFloatNull(t *testing.T) {
	assert.Equal(t, 0.0, NumericToFloat(pgtype.Numeric{}))
}

func TestParseIntParam(t *testing.T) {
	assert.Equal(t, 7, ParseIntParam("7", 3))
	assert.Equal(t, 3, ParseIntParam("", 3))
	assert.Equal(t, 3, ParseIntParam("abc", 3))
	assert.Equal(t, 3, ParseIntParam("-1", 3))
}
