package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"gymadmin/internal/domain/member"
)

// MemberFilters narrows a member listing. Zero-value fields are omitted from
// the query entirely.
type MemberFilters struct {
	Search         string
	MembershipType string
	IsActive       *bool
	StartDate      string
	EndDate        string
}

func (f MemberFilters) query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.MembershipType != "" {
		q.Set("membershipType", f.MembershipType)
	}
	if f.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	return q
}

// CreateMemberRequest carries the fields for creating a member.
type CreateMemberRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	MembershipType   string `json:"membershipType"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Notes            string `json:"notes,omitempty"`
}

// UpdateMemberRequest carries the fields for updating a member. The form
// always submits the full record, so the shapes match.
type UpdateMemberRequest = CreateMemberRequest

// memberPage is the paginated envelope some backend deployments return.
type memberPage struct {
	Content []member.Member `json:"content"`
}

// ListMembers fetches members matching the filters. The response may be a
// bare array or a paginated content envelope; both are accepted.
func (c *Client) ListMembers(ctx context.Context, filters MemberFilters) ([]member.Member, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/members", filters.query(), nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page memberPage
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, &NetworkError{Err: fmt.Errorf("decode member page: %w", err)}
		}
		return page.Content, nil
	}
	var members []member.Member
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("decode member list: %w", err)}
	}
	return members, nil
}

// GetMember fetches one member by id.
func (c *Client) GetMember(ctx context.Context, id int64) (member.Member, error) {
	var out member.Member
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/members/%d", id), nil, nil, &out)
	return out, err
}

// CreateMember creates a member.
func (c *Client) CreateMember(ctx context.Context, req CreateMemberRequest) (member.Member, error) {
	var out member.Member
	err := c.do(ctx, http.MethodPost, "/members", nil, req, &out)
	return out, err
}

// UpdateMember updates a member.
func (c *Client) UpdateMember(ctx context.Context, id int64, req UpdateMemberRequest) (member.Member, error) {
	var out member.Member
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/members/%d", id), nil, req, &out)
	return out, err
}

// DeleteMember deletes a member.
func (c *Client) DeleteMember(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/members/%d", id), nil, nil, nil)
}
