package orchestrators

import (
	"context"
	"log/slog"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/validation"
)

// MemberAPIForSave defines the API client surface needed by SaveMember.
type MemberAPIForSave interface {
	CreateMember(ctx context.Context, req api.CreateMemberRequest) (member.Member, error)
	UpdateMember(ctx context.Context, id int64, req api.UpdateMemberRequest) (member.Member, error)
}

// SaveMemberInput carries the candidate record and the edit target. ID zero
// means create.
type SaveMemberInput struct {
	ID   int64
	Form member.Input
}

// SaveMemberResult carries the saved member as returned by the backend.
type SaveMemberResult struct {
	Member  member.Member
	Created bool
}

// SaveMemberDeps holds dependencies for SaveMember.
type SaveMemberDeps struct {
	API MemberAPIForSave
}

// ExecuteSaveMember validates the candidate record and translates it into
// exactly one API call. Validation failures are collected per field and block
// network dispatch entirely.
// POST: Either FieldErrors is non-empty and no request was made, or exactly
// one create/update call was issued
func ExecuteSaveMember(ctx context.Context, input SaveMemberInput, deps SaveMemberDeps) (SaveMemberResult, validation.FieldErrors, error) {
	if errs := input.Form.Validate(); errs.Any() {
		return SaveMemberResult{}, errs, nil
	}

	req := api.CreateMemberRequest{
		FirstName:        input.Form.FirstName,
		LastName:         input.Form.LastName,
		Email:            input.Form.Email,
		Phone:            input.Form.Phone,
		DateOfBirth:      input.Form.DateOfBirth,
		Gender:           input.Form.Gender,
		Address:          input.Form.Address,
		EmergencyContact: input.Form.EmergencyContact,
		EmergencyPhone:   input.Form.EmergencyPhone,
		MembershipType:   input.Form.MembershipType,
		StartDate:        input.Form.StartDate,
		EndDate:          input.Form.EndDate,
		Notes:            input.Form.Notes,
	}

	if input.ID == 0 {
		created, err := deps.API.CreateMember(ctx, req)
		if err != nil {
			return SaveMemberResult{}, nil, err
		}
		slog.Info("member_event", "event", "member_created", "id", created.ID, "email", created.Email)
		return SaveMemberResult{Member: created, Created: true}, nil, nil
	}

	updated, err := deps.API.UpdateMember(ctx, input.ID, req)
	if err != nil {
		return SaveMemberResult{}, nil, err
	}
	slog.Info("member_event", "event", "member_updated", "id", updated.ID)
	return SaveMemberResult{Member: updated}, nil, nil
}
