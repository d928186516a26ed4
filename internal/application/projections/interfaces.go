package projections

import (
	"context"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/staffuser"
)

// MemberAPIForList defines the API client surface needed by the member list.
type MemberAPIForList interface {
	ListMembers(ctx context.Context, filters api.MemberFilters) ([]member.Member, error)
}

// UserAPIForList defines the API client surface needed by the user list.
type UserAPIForList interface {
	ListUsers(ctx context.Context, filters api.UserFilters) ([]staffuser.StaffUser, error)
}
