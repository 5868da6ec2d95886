package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/greenhouse-iot/console/internal/console/api"
	"github.com/greenhouse-iot/console/internal/console/models"
	"github.com/greenhouse-iot/console/internal/console/paginate"
)

// newUserInput is the validated form behind the "users add" command.
type newUserInput struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"required,oneof=Admin User"`
}

// Users renders the user directory. Admin only, the guard sends everyone
// else back to the device list.
func (a *App) Users(ctx context.Context) error {
	if !a.allow(ctx, models.RoleAdmin, "users") {
		return nil
	}

	users, err := a.api.ListUsers(ctx)
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	p := paginate.New(users, a.config.RowsPerPage)
	a.setListView(p, func() { a.renderUsers(p) })
	return nil
}

func (a *App) renderUsers(p *paginate.Paginator[models.DirectoryUser]) {
	fmt.Fprintf(a.out, "%-36s  %-20s  %-12s  %s\n", "ID", "USERNAME", "ROLES", "FIRST LOGIN")
	for _, u := range p.PageData() {
		first := ""
		if u.IsFirstLogin {
			first = "yes"
		}
		fmt.Fprintf(a.out, "%-36s  %-20s  %-12s  %s\n", u.ID, u.UserName, strings.Join(u.Roles, ","), first)
	}
	fmt.Fprintln(a.out, a.pageFooter(p))
}

// AddUser creates a new account with a temporary password. The account
// comes up in the first-login state, its owner must change the password on
// first sign-in.
func (a *App) AddUser(ctx context.Context) error {
	if !a.allow(ctx, models.RoleAdmin, "users") {
		return nil
	}

	input := newUserInput{}
	var err error

	if input.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if input.Role, err = getSimpleTextDefault(a.reader, "Role (Admin/User)", models.RoleUser, a.out); err != nil {
		return err
	}

	tempPassword, err := newStrongPassword()
	if err != nil {
		return err
	}
	input.Password = tempPassword

	if err := a.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fmt.Fprintf(a.out, "Invalid %s (%s)\n", strings.ToLower(fe.Field()), fe.Tag())
			}
		}
		fmt.Fprintln(a.out, "User not created.")
		return nil
	}

	if err := a.api.CreateUser(ctx, input.Username, input.Password, input.Role); err != nil {
		a.reportAPIError(err)
		return err
	}

	fmt.Fprintf(a.out, "User %s created. Temporary password: %s\n", input.Username, tempPassword)
	return nil
}

// RenameUser changes an account's username.
func (a *App) RenameUser(ctx context.Context, id, name string) error {
	if !a.allow(ctx, models.RoleAdmin, "users") {
		return nil
	}

	if err := a.validate.Var(name, "required,min=3,max=64"); err != nil {
		fmt.Fprintf(a.out, "Invalid username %q\n", name)
		return nil
	}

	if err := a.api.UpdateUser(ctx, id, api.UserUpdate{Username: &name}); err != nil {
		a.reportAPIError(err)
		return err
	}
	fmt.Fprintf(a.out, "User %s renamed to %s\n", id, name)
	return nil
}

// ResetUserPassword issues a fresh temporary password for an account. The
// new value is printed once for the admin to hand over.
func (a *App) ResetUserPassword(ctx context.Context, id string) error {
	if !a.allow(ctx, models.RoleAdmin, "users") {
		return nil
	}

	tempPassword, err := newStrongPassword()
	if err != nil {
		return err
	}

	if err := a.api.UpdateUser(ctx, id, api.UserUpdate{NewPassword: &tempPassword}); err != nil {
		a.reportAPIError(err)
		return err
	}
	fmt.Fprintf(a.out, "Temporary password for %s: %s\n", id, tempPassword)
	return nil
}

// SetUserRole changes the role of an account.
func (a *App) SetUserRole(ctx context.Context, id, role string) error {
	if !a.allow(ctx, models.RoleAdmin, "users") {
		return nil
	}

	if role != models.RoleAdmin && role != models.RoleUser {
		fmt.Fprintf(a.out, "Unknown role %q, use %s or %s\n", role, models.RoleAdmin, models.RoleUser)
		return nil
	}

	if err := a.api.UpdateUser(ctx, id, api.UserUpdate{Role: &role}); err != nil {
		a.reportAPIError(err)
		return err
	}
	fmt.Fprintf(a.out, "User %s is now %s\n", id, role)
	return nil
}

// DeleteUser removes an account. Deleting yourself is refused client-side,
// the platform would reject it anyway.
func (a *App) DeleteUser(ctx context.Context, id string) error {
	if !a.allow(ctx, models.RoleAdmin, "users") {
		return nil
	}

	if me := a.session.User(); me != nil && me.ID == id {
		fmt.Fprintln(a.out, "Refusing to delete the signed-in account.")
		return nil
	}

	if err := a.api.DeleteUser(ctx, id); err != nil {
		a.reportAPIError(err)
		return err
	}
	fmt.Fprintf(a.out, "User %s deleted\n", id)
	return nil
}
