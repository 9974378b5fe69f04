package model

import (
	"time"

	"condo/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID          = "id"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldRole        = "role"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldPhone       = "phone"
	FieldDateOfBirth = "date_of_birth"
	FieldLastLogin   = "last_login"
	FieldIsActive    = "is_active"
)

type User struct {
	ID          string     `db:"id"`
	Email       string     `db:"email"`
	Password    string     `db:"password"`
	Role        string     `db:"role"`
	FirstName   string     `db:"first_name"`
	LastName    string     `db:"last_name"`
	Phone       string     `db:"phone"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	LastLogin   *time.Time `db:"last_login"`
	IsActive    bool       `db:"is_active"`
	model.Metadata
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
