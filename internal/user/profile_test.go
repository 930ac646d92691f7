package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProfileRequest() ProfileRequest {
	return ProfileRequest{
		PrimaryGoal: "muscle_building",
		WeightKg:    70,
		HeightCm:    175,
		Age:         30,
		Sex:         "male",
	}
}

func TestProfileRequestValidate(t *testing.T) {
	req := validProfileRequest()
	assert.Empty(t, req.validate())
}

func TestProfileRequestValidateAgeRange(t *testing.T) {
	for _, age := range []int{5, 0, -1, 121, 500} {
		req := validProfileRequest()
		req.Age = age
		assert.NotEmpty(t, req.validate(), "age=%d", age)
	}

	// Boundary values are accepted.
	for _, age := range []int{13, 120} {
		req := validProfileRequest()
		req.Age = age
		assert.Empty(t, req.validate(), "age=%d", age)
	}
}

func TestProfileRequestValidateRejectsBadFields(t *testing.T) {
	req := validProfileRequest()
	req.PrimaryGoal = "marathon_prep"
	assert.Contains(t, req.validate(), "primary_goal")

	req = validProfileRequest()
	req.Sex = "other"
	assert.Contains(t, req.validate(), "sex")

	req = validProfileRequest()
	req.WeightKg = 0
	assert.Contains(t, req.validate(), "weight_kg")

	req = validProfileRequest()
	req.HeightCm = -1
	assert.Contains(t, req.validate(), "height_cm")
}
