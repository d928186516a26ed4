package projections

import (
	"context"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/application/listutil"
	"gymadmin/internal/domain/staffuser"
)

// GetUserListQuery carries input for the staff user list projection.
type GetUserListQuery struct {
	Filters listutil.FilterParams
}

// GetUserListDeps holds dependencies for the staff user list projection.
type GetUserListDeps struct {
	API UserAPIForList
}

// GetUserListResult carries the output of the staff user list projection.
type GetUserListResult struct {
	Users []staffuser.StaffUser
}

// QueryGetUserList fetches a fresh staff user list from the backend.
// POST: The outbound query contains exactly the non-empty filter fields
func QueryGetUserList(ctx context.Context, query GetUserListQuery, deps GetUserListDeps) (GetUserListResult, error) {
	filters := api.UserFilters{
		Search:   query.Filters.Search,
		Role:     query.Filters.Filters["role"],
		IsActive: query.Filters.Active,
	}
	users, err := deps.API.ListUsers(ctx, filters)
	if err != nil {
		return GetUserListResult{}, err
	}
	return GetUserListResult{Users: users}, nil
}
