// Package occupancy classifies a party into age bands and checks it against room capacity.
package occupancy

import (
	"errors"
	"fmt"
	"time"
)

type Band string

const (
	BandInfant Band = "infant"
	BandKid    Band = "kid"
	BandAdult  Band = "adult"
)

const (
	infantMaxAge = 2
	kidMaxAge    = 12
)

var ErrCapacityExceeded = errors.New("capacity exceeded")

// CapacityError carries the room limit and the counted party size.
type CapacityError struct {
	Max       int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("room allows %d guests but %d were requested", e.Max, e.Requested)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// Person is a guest as known at booking time. DateOfBirth wins over Age when both are set.
type Person struct {
	Name        string
	DateOfBirth *time.Time
	Age         *int
}

type Guest struct {
	Name    string `json:"name"`
	Age     *int   `json:"age,omitempty"`
	Band    Band   `json:"type"`
	Counted bool   `json:"counted"`
	Primary bool   `json:"primary"`
}

type Result struct {
	CountedGuests int     `json:"counted_guests"`
	Adults        int     `json:"adults"`
	Kids          int     `json:"kids"`
	Infants       int     `json:"infants"`
	Guests        []Guest `json:"guests"`
}

// AgeAt counts whole calendar years between dob and asOf.
func AgeAt(dob, asOf time.Time) int {
	asOf = asOf.In(dob.Location())

	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}

	return max(years, 0)
}

func BandFor(age int) Band {
	switch {
	case age < infantMaxAge:
		return BandInfant
	case age <= kidMaxAge:
		return BandKid
	default:
		return BandAdult
	}
}

func ageOf(person Person, asOf time.Time) *int {
	if person.DateOfBirth != nil && !person.DateOfBirth.IsZero() {
		age := AgeAt(*person.DateOfBirth, asOf)

		return &age
	}

	return person.Age
}

// Classify tags every guest, primary first. Guests with no known age count as adults.
func Classify(primary Person, companions []Person, asOf time.Time) Result {
	result := Result{Guests: make([]Guest, 0, len(companions)+1)}

	people := append([]Person{primary}, companions...)

	for i, person := range people {
		guest := Guest{Name: person.Name, Primary: i == 0, Band: BandAdult}

		if age := ageOf(person, asOf); age != nil {
			guest.Age = age
			guest.Band = BandFor(*age)
		}

		switch guest.Band {
		case BandInfant:
			result.Infants++
		case BandKid:
			result.Kids++
			guest.Counted = true
		case BandAdult:
			result.Adults++
			guest.Counted = true
		}

		if guest.Counted {
			result.CountedGuests++
		}

		result.Guests = append(result.Guests, guest)
	}

	return result
}

func CheckCapacity(result Result, capacity int) error {
	if result.CountedGuests > capacity {
		return &CapacityError{Max: capacity, Requested: result.CountedGuests}
	}

	return nil
}
