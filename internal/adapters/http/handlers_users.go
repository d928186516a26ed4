package web

import (
	"net/http"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/application/listutil"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/projections"
	"gymadmin/internal/domain/staffuser"
	"gymadmin/internal/domain/validation"
)

// userFilterKeys are the recognised staff list filter parameters besides
// search and isActive.
var userFilterKeys = []string{"role"}

type userPageData struct {
	filters listutil.FilterParams
	modal   string
	form    staffuser.Input
	formID  int64
	viewed  *staffuser.StaffUser
	errors  validation.FieldErrors
	flash   *Flash
}

// handleUsersPage lists staff users and, when requested, opens the form panel.
func (s *Server) handleUsersPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := s.apiFor(r)
	filters := listutil.ParseFilterParams(r.URL.Query(), userFilterKeys)

	data := userPageData{filters: filters}
	switch r.URL.Query().Get("modal") {
	case "new":
		data.modal = "new"
		data.form = staffuser.Defaults()
	case "edit":
		if id, ok := parseIDQuery(r); ok {
			u, err := client.GetUser(ctx, id)
			if err != nil {
				if handleAPIError(w, r, err) {
					return
				}
				redirectWithFlash(w, r, usersURL(filters), "error", api.UserMessage(err, "Could not load user"))
				return
			}
			data.modal = "edit"
			// Password fields are always reset to empty; the backend never
			// returns a password to pre-fill.
			data.form = staffuser.FromUser(u)
			data.formID = u.ID
		}
	case "view":
		if id, ok := parseIDQuery(r); ok {
			u, err := client.GetUser(ctx, id)
			if err != nil {
				if handleAPIError(w, r, err) {
					return
				}
				redirectWithFlash(w, r, usersURL(filters), "error", api.UserMessage(err, "Could not load user"))
				return
			}
			data.modal = "view"
			data.viewed = &u
		}
	}

	s.renderUsersPage(w, r, client, data)
}

func (s *Server) renderUsersPage(w http.ResponseWriter, r *http.Request, client *api.Client, data userPageData) {
	var listErr string
	result, err := projections.QueryGetUserList(r.Context(), projections.GetUserListQuery{Filters: data.filters}, projections.GetUserListDeps{API: client})
	if err != nil {
		if handleAPIError(w, r, err) {
			return
		}
		listErr = api.UserMessage(err, "Could not load users")
	}

	currentID := int64(0)
	if u, ok := middleware.CurrentUser(r.Context()); ok {
		currentID = u.ID
	}

	payload := map[string]any{
		"Users":        result.Users,
		"ListError":    listErr,
		"Search":       data.filters.Search,
		"RoleFilter":   data.filters.Filters["role"],
		"ActiveFilter": activeFilterValue(data.filters),
		"HasFilters":   data.filters.HasAny(),
		"Modal":        data.modal,
		"Form":         data.form,
		"FormID":       data.formID,
		"Viewed":       data.viewed,
		"Errors":       data.errors,
		"Roles":        staffuser.Roles,
		"CurrentID":    currentID,
		"ListURL":      usersURL(data.filters),
	}
	if data.flash != nil {
		payload["Flash"] = data.flash
	}
	s.renderTemplate(w, r, "users.html", payload)
}

// handleUserCreate handles the create form submission.
func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	s.saveUser(w, r, 0)
}

// handleUserUpdate handles the edit form submission.
func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	s.saveUser(w, r, id)
}

func (s *Server) saveUser(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	client := s.apiFor(r)
	filters := listutil.ParseFilterParams(r.URL.Query(), userFilterKeys)
	form := staffUserFormInput(r)

	modal := "new"
	if id != 0 {
		modal = "edit"
	}

	result, fieldErrs, err := orchestrators.ExecuteSaveStaffUser(r.Context(), orchestrators.SaveUserInput{ID: id, Form: form}, orchestrators.SaveUserDeps{
		API:     client,
		Sender:  s.deps.EmailSender,
		From:    s.deps.EmailFrom,
		ReplyTo: s.deps.EmailReplyTo,
	})
	if fieldErrs.Any() {
		s.renderUsersPage(w, r, client, userPageData{
			filters: filters, modal: modal, form: form, formID: id, errors: fieldErrs,
		})
		return
	}
	if err != nil {
		if handleAPIError(w, r, err) {
			return
		}
		s.renderUsersPage(w, r, client, userPageData{
			filters: filters, modal: modal, form: form, formID: id,
			flash: &Flash{Kind: "error", Message: api.UserMessage(err, "Could not save user")},
		})
		return
	}

	message := "User updated successfully"
	if result.Created {
		message = "User created successfully"
	}
	redirectWithFlash(w, r, usersURL(filters), "success", message)
}

// handleUserDelete deletes a staff account after browser-side confirmation.
func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	filters := listutil.ParseFilterParams(r.URL.Query(), userFilterKeys)

	currentID := int64(0)
	if u, ok := middleware.CurrentUser(r.Context()); ok {
		currentID = u.ID
	}

	err := orchestrators.ExecuteDeleteStaffUser(r.Context(), id, currentID, orchestrators.DeleteUserDeps{API: s.apiFor(r)})
	if err == orchestrators.ErrSelfDelete {
		redirectWithFlash(w, r, usersURL(filters), "error", err.Error())
		return
	}
	if err != nil {
		if handleAPIError(w, r, err) {
			return
		}
		redirectWithFlash(w, r, usersURL(filters), "error", api.UserMessage(err, "Could not delete user"))
		return
	}
	redirectWithFlash(w, r, usersURL(filters), "success", "User deleted successfully")
}

// usersURL rebuilds the list URL preserving the current filter tuple.
func usersURL(filters listutil.FilterParams) string {
	if q := filters.Query().Encode(); q != "" {
		return "/users?" + q
	}
	return "/users"
}
