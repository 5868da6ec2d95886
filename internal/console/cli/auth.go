package cli

import (
	"context"
	"fmt"
	"strings"
)

// getSimpleText, getSimpleTextDefault and getPassword are indirections used
// to facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getSimpleTextDefault = GetSimpleTextDefault
var getPassword = GetPassword

// Login prompts for credentials and asks the session store to sign in.
//
// The store resolves every attempt, it never errors out: a false result
// covers bad credentials and unreachable servers alike, so the console
// simply reports the outcome and stays in its current state. After a
// successful sign-in a first-login user is pushed straight into the
// forced password reset.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer wipe(password)

	if !a.session.Login(ctx, userName, string(password)) {
		fmt.Fprintln(a.out, "Login failed. Check your credentials and try again.")
		return nil
	}

	u := a.session.User()
	fmt.Fprintf(a.out, "Signed in as %s [%s]\n", u.UserName, strings.Join(u.Roles, ","))

	if u.IsFirstLogin {
		fmt.Fprintln(a.out, "This is your first login; a new password is required.")
		return a.forcedReset(ctx)
	}
	return nil
}

// Logout signs the user out and clears any list view rendered while they
// were signed in. Safe to call when nobody is signed in.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.clearListView()
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// WhoAmI prints the signed-in user, if any.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s  id=%s  roles=%s\n", u.UserName, u.ID, strings.Join(u.Roles, ","))
	return nil
}

// wipe zeroes a password buffer once it is no longer needed.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
