package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Employee is a record of the remote employee collection.
//
// ID is nil until the server assigns it on create and never changes
// afterwards.
type Employee struct {
	ID        *int64 `json:"id,omitempty" yaml:"id,omitempty"`
	FirstName string `json:"firstName" yaml:"first_name"`
	LastName  string `json:"lastName" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Salary    Salary `json:"salary" yaml:"salary"`
}

// HasID reports whether the employee has a server-assigned id.
func (e Employee) HasID() bool {
	return e.ID != nil && *e.ID > 0
}

// IDValue returns the id, or 0 when unassigned.
func (e Employee) IDValue() int64 {
	if e.ID == nil {
		return 0
	}
	return *e.ID
}

// FullName returns "First Last".
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// WithoutID returns a copy suitable for a create payload.
func (e Employee) WithoutID() Employee {
	e.ID = nil
	return e
}

// WithID returns a copy carrying id.
func (e Employee) WithID(id int64) Employee {
	e.ID = &id
	return e
}

// SameFields reports whether two employees are equal in every field
// except ID.
func (e Employee) SameFields(other Employee) bool {
	return e.FirstName == other.FirstName &&
		e.LastName == other.LastName &&
		e.Email == other.Email &&
		e.Salary.Equal(other.Salary.Decimal)
}

// Validate checks the employee before it is submitted.
// All field problems are reported together in the error details.
func (e Employee) Validate() error {
	var problems []string

	if strings.TrimSpace(e.FirstName) == "" {
		problems = append(problems, "first name is required")
	}
	if strings.TrimSpace(e.LastName) == "" {
		problems = append(problems, "last name is required")
	}
	if err := ValidateEmail(e.Email); err != nil {
		problems = append(problems, err.Error())
	}
	if e.Salary.IsNegative() {
		problems = append(problems, "salary must not be negative")
	}

	if len(problems) > 0 {
		return ErrValidation.WithDetails(strings.Join(problems, "; "))
	}
	return nil
}

// ValidateEmail checks that s is a bare, syntactically valid address.
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return fmt.Errorf("email %q is not a valid address", s)
	}
	return nil
}

// ParseID parses a route identifier. Only positive integers are valid.
func ParseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Salary is a non-negative money amount.
//
// It wraps decimal.Decimal so amounts survive JSON round trips exactly,
// and it encodes as a bare JSON number because the API expects one.
type Salary struct {
	decimal.Decimal
}

// NewSalary parses a decimal amount such as "52000.50".
func NewSalary(s string) (Salary, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Salary{}, fmt.Errorf("parse salary %q: %w", s, err)
	}
	return Salary{Decimal: d}, nil
}

// MustSalary is NewSalary for constants; it panics on bad input.
func MustSalary(s string) Salary {
	sal, err := NewSalary(s)
	if err != nil {
		panic(err)
	}
	return sal
}

// MarshalJSON encodes the amount as a JSON number.
func (s Salary) MarshalJSON() ([]byte, error) {
	return []byte(s.Decimal.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted numbers.
func (s *Salary) UnmarshalJSON(data []byte) error {
	return s.Decimal.UnmarshalJSON(data)
}
