// Package view renders the server-side pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/guru-ai/guru/backend/internal/model/chat"
	"github.com/guru-ai/guru/backend/internal/model/nav"
	"github.com/guru-ai/guru/backend/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageHome = "home"
	PageChat = "chat"
)

// Page is the data every template receives.
type Page struct {
	Title       string
	Path        string
	Theme       theme.Palette
	Modes       []theme.Mode
	Menu        nav.Menu
	Active      string
	SidebarOpen bool
	Chat        *ChatView
}

// ChatView is the state of one mounted transcript.
type ChatView struct {
	SessionID string
	Messages  []chat.Message
	Input     string
	EndTarget string
	EventsURL string
	SubmitURL string
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageHome, PageChat} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes the named page. Output is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
