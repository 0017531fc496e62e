package theme

// Palette holds the CSS classes applied for a mode.
type Palette struct {
	Mode            Mode
	HTMLClass       string
	AppRoot         string
	Sidebar         string
	Header          string
	AssistantBubble string
	UserBubble      string
	Composer        string
	Input           string
	SendButton      string
}

// Palette returns the classes for m. System defers to the browser's
// prefers-color-scheme through the "system" class.
func (p *Provider) Palette(m Mode) Palette {
	switch m {
	case Dark:
		return Palette{
			Mode:            Dark,
			HTMLClass:       "dark",
			AppRoot:         "bg-zinc-950 text-zinc-100",
			Sidebar:         "bg-zinc-900 border-zinc-800",
			Header:          "border-zinc-800",
			AssistantBubble: "bg-zinc-800",
			UserBubble:      "ml-auto bg-blue-900 text-right",
			Composer:        "border-zinc-800",
			Input:           "bg-zinc-900 border-zinc-700",
			SendButton:      "border-zinc-600",
		}
	case Orange:
		return Palette{
			Mode:            Orange,
			HTMLClass:       "orange",
			AppRoot:         "bg-orange-50 text-stone-900",
			Sidebar:         "bg-orange-100 border-orange-200",
			Header:          "border-orange-200",
			AssistantBubble: "bg-orange-100",
			UserBubble:      "ml-auto bg-amber-200 text-right",
			Composer:        "border-orange-200",
			Input:           "bg-white border-orange-300",
			SendButton:      "border-orange-400",
		}
	case System:
		pal := p.Palette(Light)
		pal.Mode = System
		pal.HTMLClass = "system"
		return pal
	default:
		return Palette{
			Mode:            Light,
			HTMLClass:       "light",
			AppRoot:         "bg-white text-zinc-900",
			Sidebar:         "bg-zinc-50 border-zinc-200",
			Header:          "border-zinc-200",
			AssistantBubble: "bg-gray-100",
			UserBubble:      "ml-auto bg-blue-100 text-right",
			Composer:        "border-zinc-200",
			Input:           "bg-white border-zinc-300",
			SendButton:      "border-zinc-300",
		}
	}
}
