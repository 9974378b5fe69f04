package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var errCompanionsScan = errors.New("unsupported companions column type")

type Companion struct {
	Name        string     `json:"name"`
	Age         *int       `json:"age,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Contact     string     `json:"contact,omitempty"`
	IDImage     string     `json:"id_image,omitempty"`
}

// Companions is stored as a JSONB array.
type Companions []Companion

func (c Companions) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}

	raw, err := json.Marshal([]Companion(c))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal companions: %w", err)
	}

	return raw, nil
}

func (c *Companions) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		*c = Companions{}

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("%w: %T", errCompanionsScan, src)
	}

	var list []Companion
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("failed to unmarshal companions: %w", err)
	}

	*c = list

	return nil
}
