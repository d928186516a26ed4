package web

import (
	"net/http"
	"strconv"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/application/listutil"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/projections"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/validation"
)

// memberFilterKeys are the recognised member list filter parameters besides
// search and isActive.
var memberFilterKeys = []string{"membershipType", "startDate", "endDate"}

// memberPageData assembles the template payload for the members page. The
// modal's selection state lives in the URL: ?modal=new|edit|view plus id.
type memberPageData struct {
	filters listutil.FilterParams
	modal   string
	form    member.Input
	formID  int64
	viewed  *member.Member
	errors  validation.FieldErrors
	flash   *Flash
}

// handleMembersPage lists members and, when requested, opens the form panel
// for create, edit, or read-only view.
func (s *Server) handleMembersPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := s.apiFor(r)
	filters := listutil.ParseFilterParams(r.URL.Query(), memberFilterKeys)

	data := memberPageData{filters: filters}
	switch r.URL.Query().Get("modal") {
	case "new":
		data.modal = "new"
		data.form = member.Defaults()
	case "edit":
		if id, ok := parseIDQuery(r); ok {
			m, err := client.GetMember(ctx, id)
			if err != nil {
				if handleAPIError(w, r, err) {
					return
				}
				redirectWithFlash(w, r, membersURL(filters), "error", api.UserMessage(err, "Could not load member"))
				return
			}
			data.modal = "edit"
			data.form = member.FromMember(m)
			data.formID = m.ID
		}
	case "view":
		if id, ok := parseIDQuery(r); ok {
			m, err := client.GetMember(ctx, id)
			if err != nil {
				if handleAPIError(w, r, err) {
					return
				}
				redirectWithFlash(w, r, membersURL(filters), "error", api.UserMessage(err, "Could not load member"))
				return
			}
			data.modal = "view"
			data.viewed = &m
		}
	}

	s.renderMembersPage(w, r, client, data)
}

// renderMembersPage fetches the list fresh (keyed by the full filter tuple in
// the URL) and renders. A fetch failure replaces the list body with a static
// error message rather than a transient notification.
func (s *Server) renderMembersPage(w http.ResponseWriter, r *http.Request, client *api.Client, data memberPageData) {
	ctx := r.Context()

	var listErr string
	result, err := projections.QueryGetMemberList(ctx, projections.GetMemberListQuery{Filters: data.filters}, projections.GetMemberListDeps{API: client})
	if err != nil {
		if handleAPIError(w, r, err) {
			return
		}
		listErr = api.UserMessage(err, "Could not load members")
	}

	// Supporting datalist for the form; best-effort.
	var activeStaff []string
	if data.modal == "new" || data.modal == "edit" {
		if staff, err := client.ListActiveUsers(ctx); err == nil {
			for _, u := range staff {
				activeStaff = append(activeStaff, u.FullName())
			}
		}
	}

	payload := map[string]any{
		"Members":         result.Members,
		"ListError":       listErr,
		"Search":          data.filters.Search,
		"MembershipType":  data.filters.Filters["membershipType"],
		"StartDate":       data.filters.Filters["startDate"],
		"EndDate":         data.filters.Filters["endDate"],
		"ActiveFilter":    activeFilterValue(data.filters),
		"HasFilters":      data.filters.HasAny(),
		"Modal":           data.modal,
		"Form":            data.form,
		"FormID":          data.formID,
		"Viewed":          data.viewed,
		"Errors":          data.errors,
		"Genders":         member.Genders,
		"MembershipTypes": member.MembershipTypes,
		"ActiveStaff":     activeStaff,
		"ListURL":         membersURL(data.filters),
	}
	if data.flash != nil {
		payload["Flash"] = data.flash
	}
	s.renderTemplate(w, r, "members.html", payload)
}

// handleMemberCreate handles the create form submission.
func (s *Server) handleMemberCreate(w http.ResponseWriter, r *http.Request) {
	s.saveMember(w, r, 0)
}

// handleMemberUpdate handles the edit form submission.
func (s *Server) handleMemberUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid member id", http.StatusBadRequest)
		return
	}
	s.saveMember(w, r, id)
}

// saveMember validates and submits exactly one create or update call. On
// validation failure or a backend rejection the panel stays open with the
// entered values intact.
func (s *Server) saveMember(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	client := s.apiFor(r)
	filters := listutil.ParseFilterParams(r.URL.Query(), memberFilterKeys)
	form := memberFormInput(r)

	modal := "new"
	if id != 0 {
		modal = "edit"
	}

	result, fieldErrs, err := orchestrators.ExecuteSaveMember(r.Context(), orchestrators.SaveMemberInput{ID: id, Form: form}, orchestrators.SaveMemberDeps{API: client})
	if fieldErrs.Any() {
		s.renderMembersPage(w, r, client, memberPageData{
			filters: filters, modal: modal, form: form, formID: id, errors: fieldErrs,
		})
		return
	}
	if err != nil {
		if handleAPIError(w, r, err) {
			return
		}
		s.renderMembersPage(w, r, client, memberPageData{
			filters: filters, modal: modal, form: form, formID: id,
			flash: &Flash{Kind: "error", Message: api.UserMessage(err, "Could not save member")},
		})
		return
	}

	message := "Member updated successfully"
	if result.Created {
		message = "Member created successfully"
	}
	redirectWithFlash(w, r, membersURL(filters), "success", message)
}

// handleMemberDelete deletes after the browser-side confirmation has already
// happened; a declined confirmation never submits this form.
func (s *Server) handleMemberDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid member id", http.StatusBadRequest)
		return
	}
	filters := listutil.ParseFilterParams(r.URL.Query(), memberFilterKeys)

	err := orchestrators.ExecuteDeleteMember(r.Context(), id, orchestrators.DeleteMemberDeps{API: s.apiFor(r)})
	if err != nil {
		if handleAPIError(w, r, err) {
			return
		}
		redirectWithFlash(w, r, membersURL(filters), "error", api.UserMessage(err, "Could not delete member"))
		return
	}
	redirectWithFlash(w, r, membersURL(filters), "success", "Member deleted successfully")
}

// memberFormInput collects the member form fields from a parsed request.
func memberFormInput(r *http.Request) member.Input {
	return member.Input{
		FirstName:        r.FormValue("firstName"),
		LastName:         r.FormValue("lastName"),
		Email:            r.FormValue("email"),
		Phone:            r.FormValue("phone"),
		DateOfBirth:      r.FormValue("dateOfBirth"),
		Gender:           r.FormValue("gender"),
		Address:          r.FormValue("address"),
		EmergencyContact: r.FormValue("emergencyContact"),
		EmergencyPhone:   r.FormValue("emergencyPhone"),
		MembershipType:   r.FormValue("membershipType"),
		StartDate:        r.FormValue("startDate"),
		EndDate:          r.FormValue("endDate"),
		Notes:            r.FormValue("notes"),
	}
}

// membersURL rebuilds the list URL preserving the current filter tuple.
func membersURL(filters listutil.FilterParams) string {
	if q := filters.Query().Encode(); q != "" {
		return "/members?" + q
	}
	return "/members"
}

// activeFilterValue renders the tri-state active filter for the select box.
func activeFilterValue(filters listutil.FilterParams) string {
	if filters.Active == nil {
		return ""
	}
	if *filters.Active {
		return "true"
	}
	return "false"
}

// parseIDQuery extracts ?id= as an int64.
func parseIDQuery(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
