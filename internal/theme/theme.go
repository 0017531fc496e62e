// Package theme resolves the colour scheme of each request. A single
// Provider is built at startup and shared by every handler.
package theme

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Mode is a colour scheme name.
type Mode string

const (
	Light  Mode = "light"
	Dark   Mode = "dark"
	System Mode = "system"
	Orange Mode = "orange"
)

// CookieName stores the chosen mode in the browser.
const CookieName = "theme"

var ErrUnknownTheme = errors.New("unknown theme")

// ParseMode converts s to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Light, Dark, System, Orange:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
}

// Config drives NewProvider.
type Config struct {
	Default      string
	Themes       []string
	EnableSystem bool
}

// Provider is the process-wide theme configuration.
type Provider struct {
	Default      Mode
	Themes       []Mode
	EnableSystem bool
}

// NewProvider validates cfg and fills defaults: system default, themes orange, dark, light.
func NewProvider(cfg Config) (*Provider, error) {
	p := &Provider{Default: System, EnableSystem: cfg.EnableSystem}

	names := cfg.Themes
	if len(names) == 0 {
		names = []string{string(Orange), string(Dark), string(Light)}
	}
	for _, name := range names {
		m, err := ParseMode(name)
		if err != nil {
			return nil, err
		}
		if m == System {
			continue
		}
		p.Themes = append(p.Themes, m)
	}

	if cfg.Default != "" {
		m, err := ParseMode(cfg.Default)
		if err != nil {
			return nil, err
		}
		p.Default = m
	}
	if !p.Allowed(p.Default) {
		return nil, fmt.Errorf("%w: default %q is not enabled", ErrUnknownTheme, p.Default)
	}
	return p, nil
}

// Allowed reports whether m may be selected.
func (p *Provider) Allowed(m Mode) bool {
	if m == System {
		return p.EnableSystem
	}
	for _, t := range p.Themes {
		if t == m {
			return true
		}
	}
	return false
}

// Modes lists every selectable mode, system last.
func (p *Provider) Modes() []Mode {
	out := append([]Mode(nil), p.Themes...)
	if p.EnableSystem {
		out = append(out, System)
	}
	return out
}

// Resolve returns the mode stored in the request cookie, or the default.
func (p *Provider) Resolve(r *http.Request) Mode {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return p.Default
	}
	m, err := ParseMode(cookie.Value)
	if err != nil || !p.Allowed(m) {
		return p.Default
	}
	return m
}

// Next returns the mode following current in the toggle cycle.
func (p *Provider) Next(current Mode) Mode {
	modes := p.Modes()
	for i, m := range modes {
		if m == current {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

// SetCookie remembers m for a year.
func SetCookie(w http.ResponseWriter, m Mode) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(m),
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
}
