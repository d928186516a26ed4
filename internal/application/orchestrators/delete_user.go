package orchestrators

import (
	"context"
	"errors"
	"log/slog"
)

// UserAPIForDelete defines the API client surface needed by DeleteStaffUser.
type UserAPIForDelete interface {
	DeleteUser(ctx context.Context, id int64) error
}

// DeleteUserDeps holds dependencies for DeleteStaffUser.
type DeleteUserDeps struct {
	API UserAPIForDelete
}

// ErrSelfDelete is returned when a user tries to delete their own account.
var ErrSelfDelete = errors.New("you cannot delete your own account")

// ExecuteDeleteStaffUser issues one delete call, refusing self-deletion up
// front (the session it would orphan belongs to the caller).
// POST: At most one delete request was issued
func ExecuteDeleteStaffUser(ctx context.Context, id, currentUserID int64, deps DeleteUserDeps) error {
	if id == currentUserID {
		return ErrSelfDelete
	}
	if err := deps.API.DeleteUser(ctx, id); err != nil {
		return err
	}
	slog.Info("user_event", "event", "user_deleted", "id", id)
	return nil
}
