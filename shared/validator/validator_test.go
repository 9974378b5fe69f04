package validator_test

import (
	"strings"
	"testing"

	"condo/shared/failure"
	"condo/shared/validator"

	"github.com/stretchr/testify/assert"
)

type guestRequest struct {
	Name     string `json:"name"      validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Adults   int    `json:"adults"    validate:"gte=1,lte=10"`
	Role     string `json:"role"      validate:"oneof=user staff manager"`
	CheckIn  string `json:"check_in"  validate:"required,datekey"`
	Comments string `json:"comments"  validate:"omitempty,max=20"`
}

func validGuest() guestRequest {
	return guestRequest{
		Name:    "Ana Cruz",
		Email:   "ana@condo.test",
		Adults:  2,
		Role:    "user",
		CheckIn: "2025-03-01",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*guestRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*guestRequest) {}},
		{name: "missing name", mutate: func(g *guestRequest) { g.Name = "" }, wantErr: "name is required"},
		{name: "bad email", mutate: func(g *guestRequest) { g.Email = "nope" }, wantErr: "email must be a valid email address"},
		{name: "zero adults", mutate: func(g *guestRequest) { g.Adults = 0 }, wantErr: "adults must be greater than or equal to 1"},
		{name: "bad role", mutate: func(g *guestRequest) { g.Role = "root" }, wantErr: "role must be one of user staff manager"},
		{name: "bad date key", mutate: func(g *guestRequest) { g.CheckIn = "03/01/2025" }, wantErr: "check_in must be a date in YYYY-MM-DD format"},
		{name: "impossible date", mutate: func(g *guestRequest) { g.CheckIn = "2025-02-30" }, wantErr: "check_in must be a date in YYYY-MM-DD format"},
		{name: "long comment", mutate: func(g *guestRequest) { g.Comments = strings.Repeat("x", 21) }, wantErr: "comments must be less than or equal to 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGuest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
		})
	}
}

func TestValidate(t *testing.T) {
	var req guestRequest

	err := validator.Validate(strings.NewReader(`{"name":"Ana","email":"ana@condo.test","adults":1,"role":"staff","check_in":"2025-03-01"}`), &req)
	assert.NoError(t, err)
	assert.Equal(t, "Ana", req.Name)

	err = validator.Validate(strings.NewReader(`{"name":`), &req)
	assert.Error(t, err)
	assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-12-31", "datekey"))
	assert.Error(t, validator.ValidateVar("tomorrow", "datekey"))
	assert.NoError(t, validator.ValidateVar("ana@condo.test", "email"))
	assert.Error(t, validator.ValidateVar("", "required"))
}

func TestValidate_EmptyBody(t *testing.T) {
	var req guestRequest

	err := validator.Validate(strings.NewReader(""), &req)
	assert.EqualError(t, err, "request body is required")
}

func TestValidateVar_FileSize(t *testing.T) {
	assert.NoError(t, validator.ValidateVar(strings.Repeat("x", 1024), "maxfilesize=1"))

	err := validator.ValidateVar(strings.Repeat("x", 2<<20), "maxfilesize=1")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "must not exceed 1 MB")
	}
}
