package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validEmployee() Employee {
	return Employee{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Salary:    MustSalary("52000.50"),
	}
}

func TestEmployee_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Employee)
		wantErr string
	}{
		{"valid", func(e *Employee) {}, ""},
		{"zero salary", func(e *Employee) { e.Salary = Salary{} }, ""},
		{"missing first name", func(e *Employee) { e.FirstName = " " }, "first name is required"},
		{"missing last name", func(e *Employee) { e.LastName = "" }, "last name is required"},
		{"missing email", func(e *Employee) { e.Email = "" }, "email is required"},
		{"bad email", func(e *Employee) { e.Email = "not-an-email" }, "not a valid address"},
		{"display name email", func(e *Employee) { e.Email = "Ada <ada@example.com>" }, "not a valid address"},
		{"negative salary", func(e *Employee) { e.Salary = MustSalary("-1") }, "salary must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEmployee()
			tt.mutate(&e)
			err := e.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error kind = %q, want validation", KindOf(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEmployee_JSONOmitsMissingID(t *testing.T) {
	data, err := json.Marshal(validEmployee())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"id"`) {
		t.Errorf("create payload should omit id: %s", data)
	}
	if !strings.Contains(string(data), `"salary":52000.5`) {
		t.Errorf("salary should encode as a JSON number: %s", data)
	}
}

func TestEmployee_JSONDecode(t *testing.T) {
	body := `{"id":7,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","salary":"1234.56"}`

	var e Employee
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatal(err)
	}
	if !e.HasID() || e.IDValue() != 7 {
		t.Errorf("ID = %v, want 7", e.ID)
	}
	if e.Salary.String() != "1234.56" {
		t.Errorf("Salary = %s, want 1234.56", e.Salary)
	}
	if e.FullName() != "Ada Lovelace" {
		t.Errorf("FullName() = %q", e.FullName())
	}
}

func TestEmployee_SameFieldsIgnoresID(t *testing.T) {
	a := validEmployee()
	b := a.WithID(42)

	if !a.SameFields(b) {
		t.Error("SameFields should ignore ID")
	}
	if a.HasID() {
		t.Error("WithID must not mutate the receiver")
	}

	b.Salary = MustSalary("52000.51")
	if a.SameFields(b) {
		t.Error("SameFields should compare salary")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"7", 7, true},
		{" 12 ", 12, true},
		{"", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"7.5", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseID(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseID(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	if err := (LoginRequest{Username: "alice", Password: "pw"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	err := (LoginRequest{}).Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "username is required") || !strings.Contains(err.Error(), "password is required") {
		t.Errorf("error = %q, want both field problems", err.Error())
	}
}
