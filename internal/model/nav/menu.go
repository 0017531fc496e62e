package nav

// Item is one link in the sidebar.
type Item struct {
	Title string `json:"title" toml:"title"`
	URL   string `json:"url" toml:"url"`
	Icon  string `json:"icon" toml:"icon"`
}

// UserMenu is the dropdown pinned to the sidebar footer.
type UserMenu struct {
	Name    string   `json:"name" toml:"name"`
	Actions []string `json:"actions" toml:"actions"`
}

// Menu describes everything the sidebar renders.
type Menu struct {
	Brand string   `json:"brand" toml:"brand"`
	Items []Item   `json:"items" toml:"items"`
	User  UserMenu `json:"user" toml:"user"`
}

// Seed provides the default sidebar.
func Seed() Menu {
	return Menu{
		Brand: "Guru AI",
		Items: []Item{
			{Title: "Home", URL: "/chat", Icon: "home"},
			{Title: "Inbox", URL: "/", Icon: "inbox"},
			{Title: "ThemeProvider", URL: "/", Icon: "calendar"},
			{Title: "Search", URL: "/", Icon: "search"},
			{Title: "Settings", URL: "/", Icon: "settings"},
		},
		User: UserMenu{
			Name:    "Username",
			Actions: []string{"Account", "Billing", "Sign out"},
		},
	}
}

func (m Menu) clone() Menu {
	out := m
	out.Items = append([]Item(nil), m.Items...)
	out.User.Actions = append([]string(nil), m.User.Actions...)
	return out
}
