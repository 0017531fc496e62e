package page

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guru-ai/guru/backend/internal/view"
)

// SidebarCookie remembers whether the sidebar is expanded.
const SidebarCookie = "sidebar_state"

func (h *Handler) layout(r *http.Request, title string) view.Page {
	mode := h.themes.Resolve(r)
	return view.Page{
		Title:       title,
		Path:        r.URL.Path,
		Theme:       h.themes.Palette(mode),
		Modes:       h.themes.Modes(),
		Menu:        h.menu.Menu(),
		Active:      h.menu.Active(r.URL.Path),
		SidebarOpen: sidebarOpen(r),
	}
}

func sidebarOpen(r *http.Request) bool {
	cookie, err := r.Cookie(SidebarCookie)
	if err != nil {
		return true
	}
	open, err := strconv.ParseBool(cookie.Value)
	if err != nil {
		return true
	}
	return open
}

func setSidebarCookie(w http.ResponseWriter, open bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SidebarCookie,
		Value:    strconv.FormatBool(open),
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
}

// returnPath only allows local redirects. Browsers read "/\host" as
// "//host", so backslashes are refused outright.
func returnPath(r *http.Request) string {
	target := r.FormValue("return")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return target
}
