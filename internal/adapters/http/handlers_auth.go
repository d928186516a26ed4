package web

import (
	"encoding/json"
	"net/http"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/domain/staffuser"
)

// handleLoginPage renders the login form. A request arriving with a persisted
// session gets it validated against the backend first: still good means
// straight to the dashboard, anything else clears the leftovers.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		if err := s.apiFor(r).ValidateToken(r.Context()); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		// Validation failed; the client cleared the session data on the
		// terminal path, the cookie goes now.
		middleware.ClearSessionCookie(w)
	}
	s.renderTemplate(w, r, "login.html", nil)
}

// handleLoginSubmit exchanges the form credentials for a session.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		API:          s.anonAPI(),
		SessionStore: s.deps.SessionStore,
	})
	if err != nil {
		s.renderTemplate(w, r, "login.html", map[string]any{
			"Username": input.Username,
			"Flash":    &Flash{Kind: "error", Message: api.UserMessage(err, "Invalid username or password")},
		})
		return
	}

	middleware.SetSessionCookie(w, result.SessionToken)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleRegisterPage renders the staff registration form.
func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, r, "register.html", map[string]any{
		"Form":  staffuser.Defaults(),
		"Roles": staffuser.Roles,
	})
}

// handleRegisterSubmit validates the candidate account and registers it.
// Validation failures re-render the form with every field's errors; the
// network is never touched for an invalid candidate.
func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	form := staffUserFormInput(r)
	result, fieldErrs, err := orchestrators.ExecuteRegister(r.Context(), orchestrators.RegisterInput{Form: form}, orchestrators.RegisterDeps{
		API:          s.anonAPI(),
		SessionStore: s.deps.SessionStore,
	})
	if fieldErrs.Any() {
		s.renderTemplate(w, r, "register.html", map[string]any{
			"Form":   form,
			"Roles":  staffuser.Roles,
			"Errors": fieldErrs,
		})
		return
	}
	if err != nil {
		s.renderTemplate(w, r, "register.html", map[string]any{
			"Form":  form,
			"Roles": staffuser.Roles,
			"Flash": &Flash{Kind: "error", Message: api.UserMessage(err, "Registration failed")},
		})
		return
	}

	middleware.SetSessionCookie(w, result.SessionToken)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout destroys the session unconditionally.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteLogout(r.Context(), middleware.SessionToken(r), orchestrators.LogoutDeps{
		SessionStore: s.deps.SessionStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleHealthz reports console liveness and proxies the backend health check.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"console": "ok", "backend": "ok"}
	code := http.StatusOK
	if err := s.anonAPI().Health(r.Context()); err != nil {
		status["backend"] = "unreachable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// staffUserFormInput collects the staff form fields from a parsed request.
func staffUserFormInput(r *http.Request) staffuser.Input {
	return staffuser.Input{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		FirstName:       r.FormValue("firstName"),
		LastName:        r.FormValue("lastName"),
		Phone:           r.FormValue("phone"),
		Role:            r.FormValue("role"),
	}
}
