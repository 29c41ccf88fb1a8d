package authz

import (
	"strconv"

	"minimart/internal/model"
)

// Counters feed the menu badges. They never change which items are shown.
type Counters struct {
	PendingOrders int `json:"pendingOrders"`
	LowStock      int `json:"lowStock"`
}

func (c Counters) badge(name string) string {
	var n int
	switch name {
	case "pendingOrders":
		n = c.PendingOrders
	case "lowStock":
		n = c.LowStock
	}
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

type Item struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
	Badge string `json:"badge,omitempty"`
}

type Section struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DefaultOpen bool   `json:"defaultOpen"`
	HeaderBadge string `json:"headerBadge,omitempty"`
	Items       []Item `json:"items"`
}

// BuildNavigation returns role's menu in table order. An unknown role gets no sections.
func (p *Policy) BuildNavigation(role model.Role, c Counters) []Section {
	entries := p.file.Menus[role]
	out := make([]Section, 0, len(entries))
	for _, e := range entries {
		def := p.file.Sections[e.Section]
		s := Section{
			ID:          e.Section,
			Title:       def.Title,
			DefaultOpen: def.DefaultOpen,
			HeaderBadge: c.badge(def.Badge),
			Items:       make([]Item, 0, len(e.Items)),
		}
		for _, path := range e.Items {
			it := p.file.Items[path]
			s.Items = append(s.Items, Item{
				Label: it.Label,
				Icon:  it.Icon,
				Path:  path,
				Badge: c.badge(it.Badge),
			})
		}
		out = append(out, s)
	}
	return out
}

// Wants reports which counters role's menu displays, so callers can skip
// fetches whose result would never be shown.
func (p *Policy) Wants(role model.Role) (pendingOrders, lowStock bool) {
	for _, e := range p.file.Menus[role] {
		switch p.file.Sections[e.Section].Badge {
		case "pendingOrders":
			pendingOrders = true
		case "lowStock":
			lowStock = true
		}
		for _, path := range e.Items {
			switch p.file.Items[path].Badge {
			case "pendingOrders":
				pendingOrders = true
			case "lowStock":
				lowStock = true
			}
		}
	}
	return pendingOrders, lowStock
}
