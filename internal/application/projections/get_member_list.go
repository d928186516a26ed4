package projections

import (
	"context"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/application/listutil"
	"gymadmin/internal/domain/member"
)

// GetMemberListQuery carries input for the member list projection.
type GetMemberListQuery struct {
	Filters listutil.FilterParams
}

// GetMemberListDeps holds dependencies for the member list projection.
type GetMemberListDeps struct {
	API MemberAPIForList
}

// GetMemberListResult carries the output of the member list projection.
type GetMemberListResult struct {
	Members []member.Member
}

// QueryGetMemberList fetches a fresh member list from the backend. Every
// change to the filter tuple produces a new fetch; the console never filters
// an already-fetched page locally.
// POST: The outbound query contains exactly the non-empty filter fields
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	filters := api.MemberFilters{
		Search:         query.Filters.Search,
		MembershipType: query.Filters.Filters["membershipType"],
		IsActive:       query.Filters.Active,
		StartDate:      query.Filters.Filters["startDate"],
		EndDate:        query.Filters.Filters["endDate"],
	}
	members, err := deps.API.ListMembers(ctx, filters)
	if err != nil {
		return GetMemberListResult{}, err
	}
	return GetMemberListResult{Members: members}, nil
}
