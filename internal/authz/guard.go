package authz

import "minimart/internal/model"

// Outcome of a guard evaluation.
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectUnauthorized
	RedirectDefault // unknown path or alias
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "login"
	case RedirectUnauthorized:
		return "unauthorized"
	case RedirectDefault:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is what the guard tells the router to do.
type Decision struct {
	Outcome  Outcome
	Location string // empty for Allow
}

// Guard evaluates one navigation. It is stateless; call it on every request.
//   - aliases redirect to their canonical route
//   - public routes are always allowed
//   - unauthenticated → login, carrying the requested path in ?next=
//   - unknown paths → the role's default route
//   - role not permitted → the unauthorized page
func (p *Policy) Guard(authenticated bool, role model.Role, path string) Decision {
	if target, ok := p.file.Aliases[path]; ok {
		return Decision{Outcome: RedirectDefault, Location: target}
	}

	r, known := p.routes[path]
	if known && r.Public {
		return Decision{Outcome: Allow}
	}
	if !authenticated {
		if !known {
			return Decision{Outcome: RedirectLogin, Location: p.file.Login}
		}
		return Decision{Outcome: RedirectLogin, Location: p.LoginRedirect(path)}
	}
	if !known {
		return Decision{Outcome: RedirectDefault, Location: p.DefaultRouteFor(role)}
	}
	if !IsRouteAllowed(role, r.Roles) {
		return Decision{Outcome: RedirectUnauthorized, Location: p.file.Unauthorized}
	}
	return Decision{Outcome: Allow}
}
