package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/greenhouse-iot/console/internal/console/models"
	"github.com/greenhouse-iot/console/internal/console/session"
)

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"all classes", "Abcdef1!", true},
		{"long mixed", "Sup3r#Secret", true},
		{"too short", "Ab1!xyz", false},
		{"no upper", "abcdef1!", false},
		{"no lower", "ABCDEF1!", false},
		{"no digit", "Abcdefg!", false},
		{"no special", "Abcdefg1", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordStrength(tt.password)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("want ErrWeakPassword, got %v", err)
			}
		})
	}
}

func TestNewStrongPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		pw, err := newStrongPassword()
		if err != nil {
			t.Fatal(err)
		}
		if err := CheckPasswordStrength(pw); err != nil {
			t.Fatalf("generated password %q fails the policy", pw)
		}
		if seen[pw] {
			t.Fatalf("duplicate generated password %q", pw)
		}
		seen[pw] = true
	}
}

func TestChangePassword_Success(t *testing.T) {
	stubInputs(t, "", "OldSecret#1", "NewSecret#2", "NewSecret#2")
	sess := signedIn(models.RoleUser)
	app, out := newTestApp(sess, &fakePlatform{})

	if err := app.ChangePassword(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sess.changeOld != "OldSecret#1" || sess.changeNew != "NewSecret#2" {
		t.Fatalf("change forwarded as %q -> %q", sess.changeOld, sess.changeNew)
	}
	if !sess.refreshCalled {
		t.Fatal("refresh expected after a successful change")
	}
	if !strings.Contains(out.String(), "Password changed") {
		t.Fatalf("output: %s", out.String())
	}
}

func TestChangePassword_IncorrectOldPassword(t *testing.T) {
	stubInputs(t, "", "wrong", "NewSecret#2", "NewSecret#2")
	sess := signedIn(models.RoleUser)
	sess.changeErr = session.ErrIncorrectOldPassword
	app, out := newTestApp(sess, &fakePlatform{})

	if err := app.ChangePassword(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sess.refreshCalled {
		t.Fatal("no refresh after a rejected change")
	}
	if !strings.Contains(out.String(), "Current password is incorrect") {
		t.Fatalf("output: %s", out.String())
	}
}

func TestChangePassword_RequiresSession(t *testing.T) {
	app, out := newTestApp(&fakeSession{}, &fakePlatform{})

	if err := app.ChangePassword(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Sign in first") {
		t.Fatalf("output: %s", out.String())
	}
}

func TestPromptNewPassword_RetriesOnWeakAndMismatch(t *testing.T) {
	answers := []string{"weak", "NewSecret#2", "Other#Pass3", "NewSecret#2", "NewSecret#2"}
	i := 0
	origGP := getPassword
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		pw := answers[i]
		i++
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = origGP })

	app, out := newTestApp(signedIn(models.RoleUser), &fakePlatform{})
	pw, err := app.promptNewPassword()
	if err != nil {
		t.Fatal(err)
	}
	if string(pw) != "NewSecret#2" {
		t.Fatalf("password = %q", pw)
	}
	if !strings.Contains(out.String(), "Too weak") || !strings.Contains(out.String(), "do not match") {
		t.Fatalf("output: %s", out.String())
	}
}

func TestPromptNewPassword_Generate(t *testing.T) {
	origGP := getPassword
	getPassword = func(_ io.Writer, _ string) ([]byte, error) { return []byte("gen"), nil }
	t.Cleanup(func() { getPassword = origGP })

	app, out := newTestApp(signedIn(models.RoleUser), &fakePlatform{})
	pw, err := app.promptNewPassword()
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckPasswordStrength(string(pw)); err != nil {
		t.Fatalf("generated password %q fails the policy", pw)
	}
	if !strings.Contains(out.String(), "Generated password") {
		t.Fatalf("output: %s", out.String())
	}
}
