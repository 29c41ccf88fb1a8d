// Package authz maps a role to the console affordances it may use: the landing
// route, the routes it may open and its navigation menu. All of it is driven
// by a static table (policy.yaml) loaded at startup.
package authz

import (
	_ "embed"
	"fmt"
	"net/url"
	"strings"

	"minimart/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

type routeDef struct {
	Path   string       `yaml:"path"`
	Roles  []model.Role `yaml:"roles"`
	Public bool         `yaml:"public"`
	Title  string       `yaml:"title"`
}

type sectionDef struct {
	Title       string `yaml:"title"`
	DefaultOpen bool   `yaml:"defaultOpen"`
	Badge       string `yaml:"badge"`
}

type itemDef struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
	Badge string `yaml:"badge"`
}

type menuEntry struct {
	Section string   `yaml:"section"`
	Items   []string `yaml:"items"`
}

type policyFile struct {
	Fallback     string                     `yaml:"fallback"`
	Login        string                     `yaml:"login"`
	Unauthorized string                     `yaml:"unauthorized"`
	Defaults     map[model.Role]string      `yaml:"defaults"`
	Aliases      map[string]string          `yaml:"aliases"`
	Routes       []routeDef                 `yaml:"routes"`
	Sections     map[string]sectionDef      `yaml:"sections"`
	Items        map[string]itemDef         `yaml:"items"`
	Menus        map[model.Role][]menuEntry `yaml:"menus"`
}

// Policy is the parsed, validated table. It is read-only after Load.
type Policy struct {
	file   policyFile
	routes map[string]routeDef
}

// Default parses the embedded table. It panics on a malformed table, which
// can only happen at build time.
func Default() *Policy {
	p, err := Load(defaultPolicy)
	if err != nil {
		panic(err)
	}
	return p
}

// Load parses and validates a policy table.
func Load(data []byte) (*Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("authz: parse policy: %w", err)
	}
	if f.Fallback == "" {
		f.Fallback = "/"
	}
	if f.Login == "" {
		f.Login = "/login"
	}
	if f.Unauthorized == "" {
		f.Unauthorized = "/unauthorized"
	}

	p := &Policy{file: f, routes: make(map[string]routeDef, len(f.Routes))}
	for _, r := range f.Routes {
		if _, dup := p.routes[r.Path]; dup {
			return nil, fmt.Errorf("authz: duplicate route %q", r.Path)
		}
		p.routes[r.Path] = r
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Policy) validate() error {
	for role, path := range p.file.Defaults {
		if !p.Allowed(role, path) {
			return fmt.Errorf("authz: default route %q not allowed for %s", path, role)
		}
	}
	for alias, target := range p.file.Aliases {
		if _, ok := p.routes[target]; !ok {
			return fmt.Errorf("authz: alias %q points at unknown route %q", alias, target)
		}
	}
	for role, entries := range p.file.Menus {
		for _, e := range entries {
			if _, ok := p.file.Sections[e.Section]; !ok {
				return fmt.Errorf("authz: %s menu references unknown section %q", role, e.Section)
			}
			for _, path := range e.Items {
				if _, ok := p.file.Items[path]; !ok {
					return fmt.Errorf("authz: %s menu references unknown item %q", role, path)
				}
				if !p.Allowed(role, path) {
					return fmt.Errorf("authz: %s menu lists %q which it cannot open", role, path)
				}
			}
		}
	}
	return nil
}

// DefaultRouteFor returns the landing route for role, or the fallback root
// for an unknown or empty role.
func (p *Policy) DefaultRouteFor(role model.Role) string {
	if r, ok := p.file.Defaults[role]; ok {
		return r
	}
	return p.file.Fallback
}

// IsRouteAllowed is true iff allowed is empty or contains role.
func IsRouteAllowed(role model.Role, allowed []model.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// RolesFor returns the roles that may open path and whether the path is known.
func (p *Policy) RolesFor(path string) ([]model.Role, bool) {
	r, ok := p.routes[path]
	return r.Roles, ok
}

// Allowed reports whether role may open path. Unknown paths are never allowed.
func (p *Policy) Allowed(role model.Role, path string) bool {
	r, ok := p.routes[path]
	if !ok {
		return false
	}
	return r.Public || IsRouteAllowed(role, r.Roles)
}

// Known reports whether path is in the route table.
func (p *Policy) Known(path string) bool {
	_, ok := p.routes[path]
	return ok
}

// Paths lists every route in table order.
func (p *Policy) Paths() []string {
	out := make([]string, 0, len(p.file.Routes))
	for _, r := range p.file.Routes {
		out = append(out, r.Path)
	}
	return out
}

// Aliases returns alias → canonical path.
func (p *Policy) Aliases() map[string]string {
	out := make(map[string]string, len(p.file.Aliases))
	for k, v := range p.file.Aliases {
		out[k] = v
	}
	return out
}

// Title is the heading for path: its menu label, else the route's own title.
func (p *Policy) Title(path string) string {
	if it, ok := p.file.Items[path]; ok {
		return it.Label
	}
	return p.routes[path].Title
}

func (p *Policy) LoginPath() string        { return p.file.Login }
func (p *Policy) UnauthorizedPath() string { return p.file.Unauthorized }

// LoginRedirect builds "/login?next=<path>".
func (p *Policy) LoginRedirect(next string) string {
	if next == "" || next == p.file.Login {
		return p.file.Login
	}
	return p.file.Login + "?next=" + url.QueryEscape(next)
}

// AfterLogin picks where a freshly authenticated user lands: next when it is a
// known route the role may open, otherwise the role's default route.
func (p *Policy) AfterLogin(role model.Role, next string) string {
	if strings.HasPrefix(next, "/") && next != p.file.Login && next != p.file.Unauthorized {
		if target, ok := p.file.Aliases[next]; ok {
			next = target
		}
		if p.Allowed(role, next) {
			return next
		}
	}
	return p.DefaultRouteFor(role)
}
