package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/adapters/email"
	"gymadmin/internal/domain/staffuser"
	"gymadmin/internal/domain/validation"
)

// UserAPIForSave defines the API client surface needed by SaveStaffUser.
type UserAPIForSave interface {
	CreateUser(ctx context.Context, req api.CreateUserRequest) (staffuser.StaffUser, error)
	UpdateUser(ctx context.Context, id int64, req api.UpdateUserRequest) (staffuser.StaffUser, error)
}

// SaveUserInput carries the candidate account and the edit target. ID zero
// means create.
type SaveUserInput struct {
	ID   int64
	Form staffuser.Input
}

// SaveUserResult carries the saved account as returned by the backend.
type SaveUserResult struct {
	User    staffuser.StaffUser
	Created bool
}

// SaveUserDeps holds dependencies for SaveStaffUser. Sender is optional; when
// wired, newly created accounts get an invite email best-effort.
type SaveUserDeps struct {
	API     UserAPIForSave
	Sender  email.Sender
	From    string
	ReplyTo string
}

// ExecuteSaveStaffUser validates the candidate account and translates it into
// exactly one API call. On edit with an empty password, the password key is
// omitted from the payload entirely — an empty password never overwrites an
// existing one. Role changes ride the same generic update path; server-side
// authorization is the real guard there.
// POST: Either FieldErrors is non-empty and no request was made, or exactly
// one create/update call was issued
func ExecuteSaveStaffUser(ctx context.Context, input SaveUserInput, deps SaveUserDeps) (SaveUserResult, validation.FieldErrors, error) {
	editing := input.ID != 0
	if errs := input.Form.Validate(editing); errs.Any() {
		return SaveUserResult{}, errs, nil
	}

	if !editing {
		created, err := deps.API.CreateUser(ctx, api.CreateUserRequest{
			Username:  input.Form.Username,
			Email:     input.Form.Email,
			Password:  input.Form.Password,
			FirstName: input.Form.FirstName,
			LastName:  input.Form.LastName,
			Phone:     input.Form.Phone,
			Role:      input.Form.Role,
		})
		if err != nil {
			return SaveUserResult{}, nil, err
		}
		slog.Info("user_event", "event", "user_created", "id", created.ID, "username", created.Username, "role", created.Role)
		sendInvite(ctx, deps, created)
		return SaveUserResult{User: created, Created: true}, nil, nil
	}

	updated, err := deps.API.UpdateUser(ctx, input.ID, api.UpdateUserRequest{
		Username:  input.Form.Username,
		Email:     input.Form.Email,
		Password:  input.Form.Password, // "" is omitted from the payload
		FirstName: input.Form.FirstName,
		LastName:  input.Form.LastName,
		Phone:     input.Form.Phone,
		Role:      input.Form.Role,
	})
	if err != nil {
		return SaveUserResult{}, nil, err
	}
	slog.Info("user_event", "event", "user_updated", "id", updated.ID, "username", updated.Username)
	return SaveUserResult{User: updated}, nil, nil
}

// sendInvite emails the new staff member their username. Best-effort: a
// delivery failure never fails the creation that already succeeded.
func sendInvite(ctx context.Context, deps SaveUserDeps, u staffuser.StaffUser) {
	if deps.Sender == nil || u.Email == "" {
		return
	}
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>A staff account has been created for you at the gym admin console.</p><p>Your username is <strong>%s</strong>. Ask your administrator for your initial password.</p>",
		u.FirstName, u.Username,
	)
	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{u.Email},
		From:    deps.From,
		Subject: "Your gym admin account",
		HTML:    html,
		ReplyTo: deps.ReplyTo,
	})
	if err != nil {
		slog.Error("user_event", "event", "invite_email_failed", "username", u.Username, "error", err.Error())
	}
}
