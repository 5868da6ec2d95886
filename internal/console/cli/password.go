package cli

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"unicode"

	"github.com/greenhouse-iot/console/internal/console/guard"
	"github.com/greenhouse-iot/console/internal/console/session"
)

const passwordSpecials = "!@#$%^&*"

// ErrWeakPassword reports a new password that does not meet the strength
// policy: at least 8 characters with an upper-case letter, a lower-case
// letter, a digit and one of !@#$%^&*.
var ErrWeakPassword = errors.New("password does not meet the strength policy")

// CheckPasswordStrength validates a candidate password against the policy.
func CheckPasswordStrength(password string) error {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			for _, s := range passwordSpecials {
				if r == s {
					special = true
				}
			}
		}
	}
	if len([]rune(password)) < 8 || !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}

// newStrongPassword draws a 12-character password that satisfies the policy.
func newStrongPassword() (string, error) {
	const (
		upper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
		lower   = "abcdefghijkmnpqrstuvwxyz"
		digits  = "23456789"
		length  = 12
		charset = upper + lower + digits + passwordSpecials
	)

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	// one of each class up front so the result always passes the policy
	buf := make([]byte, 0, length)
	for _, set := range []string{upper, lower, digits, passwordSpecials} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < length {
		c, err := pick(charset)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	// shuffle so the class-ordered prefix is not predictable
	for i := len(buf) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// GeneratePassword prints one generated strong password. It is a plain
// helper command and needs no session.
func (a *App) GeneratePassword(ctx context.Context) error {
	pw, err := newStrongPassword()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, pw)
	return nil
}

// ChangePassword is the self-service password view. The current password is
// always asked for; a first-login user goes through forcedReset instead,
// which the guard enforces before any other view renders.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.allow(ctx, "", guard.ResetRoute) {
		return nil
	}

	oldPassword, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer wipe(oldPassword)

	newPassword, err := a.promptNewPassword()
	if err != nil {
		return err
	}
	defer wipe(newPassword)

	return a.submitPassword(ctx, string(oldPassword), string(newPassword))
}

// forcedReset is the first-login flow: the platform issued a temporary
// password, so no current password is collected.
func (a *App) forcedReset(ctx context.Context) error {
	newPassword, err := a.promptNewPassword()
	if err != nil {
		return err
	}
	defer wipe(newPassword)

	return a.submitPassword(ctx, "", string(newPassword))
}

// promptNewPassword collects and confirms a policy-conforming password.
// Typing "gen" at the first prompt generates one and prints it instead of
// asking for confirmation.
func (a *App) promptNewPassword() ([]byte, error) {
	for {
		pw, err := getPassword(a.out, "New password (or 'gen' to generate)")
		if err != nil {
			return nil, err
		}
		if string(pw) == "gen" {
			generated, err := newStrongPassword()
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(a.out, "Generated password: %s (store it safely)\n", generated)
			return []byte(generated), nil
		}
		if err := CheckPasswordStrength(string(pw)); err != nil {
			fmt.Fprintln(a.out, "Too weak: need 8+ characters with upper, lower, digit and one of "+passwordSpecials+".")
			wipe(pw)
			continue
		}

		confirm, err := getPassword(a.out, "Repeat new password")
		if err != nil {
			wipe(pw)
			return nil, err
		}
		if string(pw) != string(confirm) {
			fmt.Fprintln(a.out, "Passwords do not match, try again.")
			wipe(pw)
			wipe(confirm)
			continue
		}
		wipe(confirm)
		return pw, nil
	}
}

// submitPassword sends the change to the platform and refreshes the session
// so isFirstLogin clears without a re-login.
func (a *App) submitPassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := a.session.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		if errors.Is(err, session.ErrIncorrectOldPassword) {
			fmt.Fprintln(a.out, "Current password is incorrect.")
			return nil
		}
		fmt.Fprintln(a.out, "Could not change the password:", err.Error())
		return err
	}

	a.session.Refresh(ctx)
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
