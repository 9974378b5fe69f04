package dto

import (
	"strings"
	"time"

	"condo/internal/domains/user/model"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	gModel "condo/shared/model"
	"condo/shared/timezone"

	"github.com/google/uuid"
)

// GuestAccountRequest describes an account created on behalf of a walk-in guest.
type GuestAccountRequest struct {
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	DateOfBirth *time.Time
}

func (r *GuestAccountRequest) ToModel(actor, hashedPassword string) model.User {
	return model.User{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Password:    hashedPassword,
		Role:        constant.RoleUser,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth,
		IsActive:    true,
		Metadata:    gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       string  `json:"phone"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	LastLogin   *string `json:"last_login,omitempty"`
	IsActive    bool    `json:"is_active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Role = model.Role
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Phone = model.Phone
	r.IsActive = model.IsActive

	if model.DateOfBirth != nil {
		dob := model.DateOfBirth.Format(constant.DateKeyFormat)
		r.DateOfBirth = &dob
	}

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

type UpdateUserRequest struct {
	Role        *string `db:"role"          json:"role,omitempty"          validate:"omitempty,oneof=user staff manager admin"`
	FirstName   *string `db:"first_name"    json:"first_name,omitempty"    validate:"omitempty,max=100"`
	LastName    *string `db:"last_name"     json:"last_name,omitempty"     validate:"omitempty,max=100"`
	Phone       *string `db:"phone"         json:"phone,omitempty"         validate:"omitempty,max=20"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datekey"`
	IsActive    *bool   `db:"is_active"     json:"is_active,omitempty"`
}

func (r UpdateUserRequest) IsEmpty() bool {
	return r == (UpdateUserRequest{})
}

// UpdateProfileRequest is the subset of UpdateUserRequest an account may change on itself.
type UpdateProfileRequest struct {
	FirstName   *string `db:"first_name" json:"first_name,omitempty"    validate:"omitempty,max=100"`
	LastName    *string `db:"last_name"  json:"last_name,omitempty"     validate:"omitempty,max=100"`
	Phone       *string `db:"phone"      json:"phone,omitempty"         validate:"omitempty,max=20"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datekey"`
}

func (r UpdateProfileRequest) IsEmpty() bool {
	return r == (UpdateProfileRequest{})
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
