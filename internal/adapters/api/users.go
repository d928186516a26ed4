package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"gymadmin/internal/domain/staffuser"
)

// UserFilters narrows a staff user listing. Zero-value fields are omitted
// from the query entirely: not sent is different from sent-as-empty, and
// IsActive is tri-state for the same reason.
type UserFilters struct {
	Search   string
	Role     string
	IsActive *bool
}

func (f UserFilters) query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	return q
}

// CreateUserRequest carries the fields for creating a staff account.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

// UpdateUserRequest carries the fields for updating a staff account.
// Password is omitted from the payload when empty: an empty password must
// never overwrite an existing one.
type UpdateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

// ListUsers fetches staff users matching the filters.
func (c *Client) ListUsers(ctx context.Context, filters UserFilters) ([]staffuser.StaffUser, error) {
	var out []staffuser.StaffUser
	err := c.do(ctx, http.MethodGet, "/users", filters.query(), nil, &out)
	return out, err
}

// ListActiveUsers fetches only active staff users.
func (c *Client) ListActiveUsers(ctx context.Context) ([]staffuser.StaffUser, error) {
	var out []staffuser.StaffUser
	err := c.do(ctx, http.MethodGet, "/users/active", nil, nil, &out)
	return out, err
}

// GetUser fetches one staff user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (staffuser.StaffUser, error) {
	var out staffuser.StaffUser
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &out)
	return out, err
}

// CreateUser creates a staff account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (staffuser.StaffUser, error) {
	var out staffuser.StaffUser
	err := c.do(ctx, http.MethodPost, "/users", nil, req, &out)
	return out, err
}

// UpdateUser updates a staff account.
func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (staffuser.StaffUser, error) {
	var out staffuser.StaffUser
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, req, &out)
	return out, err
}

// DeleteUser deletes a staff account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}
