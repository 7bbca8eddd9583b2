package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/yndnr/roster-go/internal/core/domain"
)

// Format represents the output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// Pair is one row of a key/value listing.
type Pair struct {
	Key   string
	Value string
}

// Printer writes results in a fixed format.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a printer.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Format returns the printer's format.
func (p *Printer) Format() Format {
	return p.format
}

// Employees prints a list.
func (p *Printer) Employees(list []domain.Employee) error {
	switch p.format {
	case FormatJSON:
		if list == nil {
			list = []domain.Employee{}
		}
		return p.json(list)
	case FormatYAML:
		views := make([]employeeYAML, len(list))
		for i, e := range list {
			views[i] = toYAML(e)
		}
		return p.yaml(views)
	default:
		if len(list) == 0 {
			_, err := fmt.Fprintln(p.w, "No employees found.")
			return err
		}
		t := &Table{Headers: []string{"ID", "FIRST NAME", "LAST NAME", "EMAIL", "SALARY"}}
		for _, e := range list {
			t.AddRow(idText(e), e.FirstName, e.LastName, e.Email, e.Salary.StringFixed(2))
		}
		return t.Render(p.w)
	}
}

// Employee prints one record.
func (p *Printer) Employee(e domain.Employee) error {
	switch p.format {
	case FormatJSON:
		return p.json(e)
	case FormatYAML:
		return p.yaml(toYAML(e))
	default:
		return p.Pairs([]Pair{
			{"ID", idText(e)},
			{"Name", e.FullName()},
			{"Email", e.Email},
			{"Salary", e.Salary.StringFixed(2)},
		})
	}
}

// Pairs prints an ordered key/value listing.
func (p *Printer) Pairs(pairs []Pair) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		m := make(map[string]string, len(pairs))
		for _, kv := range pairs {
			m[kv.Key] = kv.Value
		}
		if p.format == FormatJSON {
			return p.json(m)
		}
		return p.yaml(m)
	default:
		t := &Table{}
		for _, kv := range pairs {
			t.AddRow(kv.Key+":", kv.Value)
		}
		return t.Render(p.w)
	}
}

// Value prints any document in the structured formats and falls back to
// fmt in table mode.
func (p *Printer) Value(v any) error {
	switch p.format {
	case FormatJSON:
		return p.json(v)
	case FormatYAML:
		return p.yaml(v)
	default:
		_, err := fmt.Fprintln(p.w, v)
		return err
	}
}

// Message prints a line of prose. Structured formats stay silent so their
// output remains parseable.
func (p *Printer) Message(format string, args ...any) {
	if p.format != FormatTable {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func idText(e domain.Employee) string {
	if !e.HasID() {
		return "-"
	}
	return fmt.Sprint(e.IDValue())
}

// employeeYAML mirrors the JSON field names; salary is emitted as a plain
// number rather than the quoted text decimal.Decimal produces.
type employeeYAML struct {
	ID        *int64     `yaml:"id,omitempty"`
	FirstName string     `yaml:"firstName"`
	LastName  string     `yaml:"lastName"`
	Email     string     `yaml:"email"`
	Salary    yamlNumber `yaml:"salary"`
}

type yamlNumber string

func (n yamlNumber) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: string(n)}, nil
}

func toYAML(e domain.Employee) employeeYAML {
	return employeeYAML{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		Salary:    yamlNumber(e.Salary.String()),
	}
}
