package nav

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrInvalidMenu = errors.New("invalid menu")

// LoadFile reads a menu from a TOML file. Fields left out fall back to Seed.
func LoadFile(path string) (Menu, error) {
	var menu Menu
	meta, err := toml.DecodeFile(path, &menu)
	if err != nil {
		return Menu{}, fmt.Errorf("decode menu %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Menu{}, fmt.Errorf("%w: unknown key %s", ErrInvalidMenu, undecoded[0])
	}

	seed := Seed()
	if menu.Brand == "" {
		menu.Brand = seed.Brand
	}
	if !meta.IsDefined("items") {
		menu.Items = seed.Items
	}
	if menu.User.Name == "" {
		menu.User.Name = seed.User.Name
	}
	if !meta.IsDefined("user", "actions") {
		menu.User.Actions = seed.User.Actions
	}

	if err := Validate(menu); err != nil {
		return Menu{}, err
	}
	return menu, nil
}

// Validate checks that every item can be rendered as a local link.
func Validate(menu Menu) error {
	for i, item := range menu.Items {
		if strings.TrimSpace(item.Title) == "" {
			return fmt.Errorf("%w: item %d has no title", ErrInvalidMenu, i)
		}
		if !strings.HasPrefix(item.URL, "/") {
			return fmt.Errorf("%w: item %q url %q must start with /", ErrInvalidMenu, item.Title, item.URL)
		}
	}
	return nil
}
