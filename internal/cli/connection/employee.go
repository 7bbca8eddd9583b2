package connection

import (
	"context"
	"fmt"

	"github.com/yndnr/roster-go/internal/core/domain"
)

// EmployeesPath is the collection endpoint relative to the API root.
const EmployeesPath = "/employees"

// EmployeeClient is a typed wrapper over the employee collection.
type EmployeeClient struct {
	http *HTTPClient
}

// NewEmployeeClient creates an EmployeeClient.
func NewEmployeeClient(c *HTTPClient) *EmployeeClient {
	return &EmployeeClient{http: c}
}

func employeePath(id int64) string {
	return fmt.Sprintf("%s/%d", EmployeesPath, id)
}

// List returns every employee.
func (c *EmployeeClient) List(ctx context.Context) ([]domain.Employee, error) {
	resp, err := c.http.Get(ctx, EmployeesPath)
	if err != nil {
		return nil, err
	}
	var out []domain.Employee
	if err := ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one employee.
func (c *EmployeeClient) Get(ctx context.Context, id int64) (domain.Employee, error) {
	resp, err := c.http.Get(ctx, employeePath(id))
	if err != nil {
		return domain.Employee{}, err
	}
	var e domain.Employee
	if err := ParseResponse(resp, &e); err != nil {
		return domain.Employee{}, err
	}
	return e, nil
}

// Create posts e without an id and returns the stored record.
func (c *EmployeeClient) Create(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	resp, err := c.http.Post(ctx, EmployeesPath, e.WithoutID())
	if err != nil {
		return domain.Employee{}, err
	}
	var saved domain.Employee
	if err := ParseResponse(resp, &saved); err != nil {
		return domain.Employee{}, err
	}
	return saved, nil
}

// Update replaces employee id with e.
func (c *EmployeeClient) Update(ctx context.Context, id int64, e domain.Employee) (domain.Employee, error) {
	resp, err := c.http.Put(ctx, employeePath(id), e)
	if err != nil {
		return domain.Employee{}, err
	}
	var saved domain.Employee
	if err := ParseResponse(resp, &saved); err != nil {
		return domain.Employee{}, err
	}
	return saved, nil
}

// Delete removes employee id. Any 2xx status is success; a body is ignored.
func (c *EmployeeClient) Delete(ctx context.Context, id int64) error {
	resp, err := c.http.Delete(ctx, employeePath(id))
	if err != nil {
		return err
	}
	return ParseResponse(resp, nil)
}
