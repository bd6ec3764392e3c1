package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Priority int    `json:"priority" validate:"gte=1,lte=5"`
}

func TestStruct_Valid(t *testing.T) {
	details := Struct(sampleRequest{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "password1",
		Priority: 3,
	})
	assert.Nil(t, details)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	details := Struct(sampleRequest{
		Username: "al",
		Email:    "not-an-email",
		Password: "short",
		Priority: 9,
	})

	assert.Equal(t, "must be at least 3 characters long", details["username"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 8 characters long", details["password"])
	assert.Equal(t, "must be less than or equal to 5", details["priority"])
}

func TestStruct_RequiredFields(t *testing.T) {
	details := Struct(sampleRequest{Priority: 1})

	assert.Equal(t, "is required", details["username"])
	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, "is required", details["password"])
}
