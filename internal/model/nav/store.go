package nav

// Store exposes the sidebar configuration to handlers and views.
type Store interface {
	Menu() Menu
	Active(path string) string
}

// MemoryStore implements Store with a fixed menu.
type MemoryStore struct {
	menu Menu
}

// NewMemoryStore returns a MemoryStore holding a copy of menu.
func NewMemoryStore(menu Menu) *MemoryStore {
	return &MemoryStore{menu: menu.clone()}
}

// Menu returns a copy of the configured menu.
func (s *MemoryStore) Menu() Menu {
	return s.menu.clone()
}

// Active returns the title of the first item whose URL equals path, or "".
func (s *MemoryStore) Active(path string) string {
	for _, item := range s.menu.Items {
		if item.URL == path {
			return item.Title
		}
	}
	return ""
}
