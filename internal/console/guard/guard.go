// Package guard decides whether a protected view may be shown to the
// current session. It is a pure function of its inputs: no state, no
// network, so every branch is directly unit-testable.
package guard

import "github.com/greenhouse-iot/console/internal/console/models"

// Well-known destinations used by guard verdicts.
const (
	LoginRoute = "login"
	ResetRoute = "reset"
	HomeRoute  = "devices"
)

// Verdict is the outcome of a guard check.
type Verdict int

const (
	// Grant renders the requested view.
	Grant Verdict = iota
	// ToLogin redirects an unauthenticated session to the login view.
	ToLogin
	// ToReset forces a first-login session into the password-reset view.
	ToReset
	// ToHome sends an authenticated but unauthorized user to the default
	// landing view. Never to login: the session is valid, just lacking the
	// required role.
	ToHome
)

// Target returns the destination route for a redirect verdict, or "" for
// Grant.
func (v Verdict) Target() string {
	switch v {
	case ToLogin:
		return LoginRoute
	case ToReset:
		return ResetRoute
	case ToHome:
		return HomeRoute
	}
	return ""
}

// Decide evaluates access to currentPath. requiredRole may be empty, in
// which case any authenticated (and password-reset-complete) user passes.
//
// The order of the rules matters: authentication first, then the forced
// first-login reset, then role authorization.
func Decide(authed bool, user *models.User, requiredRole, currentPath string) Verdict {
	if !authed || user == nil {
		return ToLogin
	}
	if user.IsFirstLogin && currentPath != ResetRoute {
		return ToReset
	}
	if requiredRole != "" && !user.HasRole(requiredRole) {
		return ToHome
	}
	return Grant
}
