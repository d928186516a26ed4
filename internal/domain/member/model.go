package member

import (
	"strings"
	"time"

	"gymadmin/internal/domain/validation"
)

// Gender values accepted by the backend.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Membership tiers accepted by the backend.
const (
	MembershipBasic   = "BASIC"
	MembershipPremium = "PREMIUM"
	MembershipVIP     = "VIP"
)

// MinNameLength applies to first name, last name, and emergency contact name.
const MinNameLength = 2

// Genders lists the enumerated gender values in display order.
var Genders = []string{GenderMale, GenderFemale, GenderOther}

// MembershipTypes lists the enumerated membership tiers in display order.
var MembershipTypes = []string{MembershipBasic, MembershipPremium, MembershipVIP}

// Member is a gym customer record as returned by the backend. The backend
// owns the entity; the console only holds request-scoped copies.
type Member struct {
	ID               int64  `json:"id"`
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
	IsActive         bool   `json:"isActive"`
	Notes            string `json:"notes"`
	CreatedBy        int64  `json:"createdBy"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// FullName returns the display name.
// INVARIANT: Member fields are not mutated
func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Input carries a candidate member record as entered on the form, before any
// network call is made.
type Input struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	DateOfBirth      string
	Gender           string
	Address          string
	EmergencyContact string
	EmergencyPhone   string
	MembershipType   string
	StartDate        string
	EndDate          string
	Notes            string
}

// Defaults returns the fixed baseline for a blank create form.
func Defaults() Input {
	return Input{
		Gender:         GenderMale,
		MembershipType: MembershipBasic,
	}
}

// FromMember pre-populates an Input from an existing record for editing.
func FromMember(m Member) Input {
	return Input{
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Email:            m.Email,
		Phone:            m.Phone,
		DateOfBirth:      m.DateOfBirth,
		Gender:           m.Gender,
		Address:          m.Address,
		EmergencyContact: m.EmergencyContact,
		EmergencyPhone:   m.EmergencyPhone,
		MembershipType:   m.MembershipType,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Notes:            m.Notes,
	}
}

// Validate checks the candidate record and collects every failure. All fields
// are required except Notes. End-date ordering is not cross-checked here; the
// backend is authoritative for that rule.
// PRE: Input holds raw form values
// POST: Returns one entry per failing field; empty map means submittable
func (in Input) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}

	checkName(errs, "firstName", in.FirstName, "First name")
	checkName(errs, "lastName", in.LastName, "Last name")

	if strings.TrimSpace(in.Email) == "" {
		errs.Add("email", "Email is required")
	} else if !validation.ValidEmail(in.Email) {
		errs.Add("email", "Email must be a valid address")
	}

	if strings.TrimSpace(in.Phone) == "" {
		errs.Add("phone", "Phone is required")
	} else if !validation.ValidPhone(in.Phone) {
		errs.Add("phone", "Phone must be in international format")
	}

	checkDate(errs, "dateOfBirth", in.DateOfBirth, "Date of birth")

	if !oneOf(in.Gender, Genders) {
		errs.Add("gender", "Gender must be MALE, FEMALE, or OTHER")
	}

	if strings.TrimSpace(in.Address) == "" {
		errs.Add("address", "Address is required")
	}

	checkName(errs, "emergencyContact", in.EmergencyContact, "Emergency contact name")

	if strings.TrimSpace(in.EmergencyPhone) == "" {
		errs.Add("emergencyPhone", "Emergency phone is required")
	} else if !validation.ValidPhone(in.EmergencyPhone) {
		errs.Add("emergencyPhone", "Emergency phone must be in international format")
	}

	if !oneOf(in.MembershipType, MembershipTypes) {
		errs.Add("membershipType", "Membership type must be BASIC, PREMIUM, or VIP")
	}

	checkDate(errs, "startDate", in.StartDate, "Start date")
	checkDate(errs, "endDate", in.EndDate, "End date")

	return errs
}

func checkName(errs validation.FieldErrors, field, value, label string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		errs.Add(field, label+" is required")
		return
	}
	if len(trimmed) < MinNameLength {
		errs.Add(field, label+" must be at least 2 characters")
	}
}

func checkDate(errs validation.FieldErrors, field, value, label string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, label+" is required")
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		errs.Add(field, label+" must be a valid date")
	}
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
