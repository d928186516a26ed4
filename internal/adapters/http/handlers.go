package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymadmin/internal/adapters/api"
	"gymadmin/internal/adapters/http/middleware"
	sessionStore "gymadmin/internal/adapters/storage/session"
	"gymadmin/internal/domain/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

const flashCookieName = "gymadmin_flash"

// Flash is a transient notification shown exactly once.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// setFlash queues a transient notification for the next rendered page.
func setFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(kind + "|" + message),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   60,
	})
}

// popFlash reads and clears the pending notification, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, found := cutFlash(raw)
	if !found {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}

func cutFlash(raw string) (string, string, bool) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '|' {
			return raw[:i], raw[i+1:], true
		}
	}
	return "", "", false
}

// apiFor returns an API client bound to the request's persisted session, so
// the transparent-refresh path writes back to the right row.
func (s *Server) apiFor(r *http.Request) *api.Client {
	token := middleware.SessionToken(r)
	if token == "" {
		return api.New(s.deps.APIBaseURL, nil)
	}
	return api.New(s.deps.APIBaseURL, sessionStore.NewTokenSource(s.deps.SessionStore, token))
}

// anonAPI returns an API client with no session attached (login, register).
func (s *Server) anonAPI() *api.Client {
	return api.New(s.deps.APIBaseURL, nil)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// parseID extracts the {id} path value as an int64.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// renderTemplate renders a page template inside the layout.
func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data map[string]any) {
	user, loggedIn := middleware.CurrentUser(r.Context())

	funcMap := template.FuncMap{
		"isLoggedIn":   func() bool { return loggedIn },
		"currentName":  func() string { return user.FullName() },
		"currentRole":  func() string { return user.Role },
		"isAdmin":      func() bool { return user.IsAdmin() },
		"csrfToken":    func() string { return csrf.Token(r) },
		"fieldError": func(errs validation.FieldErrors, field string) string {
			if errs == nil {
				return ""
			}
			return errs.First(field)
		},
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"printMillis": func(ms float64) string {
			return strconv.FormatFloat(ms, 'f', 1, 64)
		},
		"actionURL": func(listURL string, id int64, op string) string {
			path, query, _ := strings.Cut(listURL, "?")
			if id > 0 {
				path += "/" + strconv.FormatInt(id, 10)
			}
			if op != "" {
				path += "/" + op
			}
			if query != "" {
				path += "?" + query
			}
			return path
		},
		"modalURL": func(listURL, mode string, id int64) string {
			sep := "?"
			if strings.Contains(listURL, "?") {
				sep = "&"
			}
			u := listURL + sep + "modal=" + mode
			if id > 0 {
				u += "&id=" + strconv.FormatInt(id, 10)
			}
			return u
		},
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = popFlash(w, r)
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		slog.Error("render_error", "template", templateName, "error", err.Error())
	}
}

// redirectWithFlash queues a notification and redirects.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	setFlash(w, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleAPIError deals with the terminal session-expired case uniformly: the
// client has already cleared the persisted session, so the browser goes back
// to the login entry point. Returns true if handled.
func handleAPIError(w http.ResponseWriter, r *http.Request, err error) bool {
	if api.IsSessionExpired(err) {
		middleware.ClearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return true
	}
	return false
}
