package orchestrators

import (
	"context"
	"log/slog"
)

// MemberAPIForDelete defines the API client surface needed by DeleteMember.
type MemberAPIForDelete interface {
	DeleteMember(ctx context.Context, id int64) error
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	API MemberAPIForDelete
}

// ExecuteDeleteMember issues one delete call. User confirmation happens at
// the form; by the time this runs the action is committed.
// POST: Exactly one delete request was issued
func ExecuteDeleteMember(ctx context.Context, id int64, deps DeleteMemberDeps) error {
	if err := deps.API.DeleteMember(ctx, id); err != nil {
		return err
	}
	slog.Info("member_event", "event", "member_deleted", "id", id)
	return nil
}
