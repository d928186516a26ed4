package staffuser

import (
	"strings"

	"gymadmin/internal/domain/validation"
)

// Role tiers accepted by the backend.
const (
	RoleAdmin        = "ADMIN"
	RoleManager      = "MANAGER"
	RoleReceptionist = "RECEPTIONIST"
)

// Username and password length rules.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
	MinNameLength     = 2
)

// Roles lists the enumerated roles in display order.
var Roles = []string{RoleReceptionist, RoleManager, RoleAdmin}

// StaffUser is an internal operator account as returned by the backend.
// Password is write-only: accepted on create/update, never present here.
type StaffUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	LastLogin string `json:"lastLogin,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FullName returns the display name.
// INVARIANT: StaffUser fields are not mutated
func (u StaffUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the account has the ADMIN role.
func (u StaffUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Input carries a candidate staff account as entered on the form. Password
// and ConfirmPassword are always blank when the form is first rendered; the
// backend never returns a password to pre-fill.
type Input struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	Role            string
}

// Defaults returns the fixed baseline for a blank create form.
func Defaults() Input {
	return Input{Role: RoleReceptionist}
}

// FromUser pre-populates an Input from an existing account for editing.
// Password fields are deliberately left empty.
func FromUser(u StaffUser) Input {
	return Input{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}

// ValidRole reports whether role is one of the enumerated tiers.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// Validate checks the candidate account and collects every failure.
//
// Password is conditionally required: mandatory (min 6) when creating, and
// optional when editing but still length-checked if supplied. Confirmation is
// required and must equal the password whenever the password is non-empty,
// in both flows.
// PRE: Input holds raw form values
// POST: Returns one entry per failing field; empty map means submittable
func (in Input) Validate(editing bool) validation.FieldErrors {
	errs := validation.FieldErrors{}

	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		errs.Add("username", "Username is required")
	case len(username) < MinUsernameLength:
		errs.Add("username", "Username must be at least 3 characters")
	case len(username) > MaxUsernameLength:
		errs.Add("username", "Username cannot exceed 20 characters")
	}

	if strings.TrimSpace(in.Email) == "" {
		errs.Add("email", "Email is required")
	} else if !validation.ValidEmail(in.Email) {
		errs.Add("email", "Email must be a valid address")
	}

	if in.Password == "" {
		if !editing {
			errs.Add("password", "Password is required")
		}
	} else if len(in.Password) < MinPasswordLength {
		errs.Add("password", "Password must be at least 6 characters")
	}

	// Cross-field rule: a non-empty password makes confirmation mandatory.
	if in.Password != "" {
		if in.ConfirmPassword == "" {
			errs.Add("confirmPassword", "Password confirmation is required")
		} else if in.ConfirmPassword != in.Password {
			errs.Add("confirmPassword", "Passwords must match")
		}
	}

	checkMinLength(errs, "firstName", in.FirstName, "First name")
	checkMinLength(errs, "lastName", in.LastName, "Last name")

	if in.Phone != "" && !validation.ValidPhone(in.Phone) {
		errs.Add("phone", "Phone must be in international format")
	}

	if in.Role == "" {
		errs.Add("role", "Role is required")
	} else if !ValidRole(in.Role) {
		errs.Add("role", "Role must be ADMIN, MANAGER, or RECEPTIONIST")
	}

	return errs
}

func checkMinLength(errs validation.FieldErrors, field, value, label string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		errs.Add(field, label+" is required")
		return
	}
	if len(trimmed) < MinNameLength {
		errs.Add(field, label+" must be at least 2 characters")
	}
}
