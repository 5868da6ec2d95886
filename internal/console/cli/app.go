// Package cli implements the interactive greenhouse console: a REPL whose
// commands map onto the dashboard's views. Every protected view consults
// the route guard before rendering.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/greenhouse-iot/console/internal/console/api"
	"github.com/greenhouse-iot/console/internal/console/config"
	"github.com/greenhouse-iot/console/internal/console/guard"
	"github.com/greenhouse-iot/console/internal/console/models"
	"github.com/greenhouse-iot/console/internal/console/session"
	"github.com/greenhouse-iot/console/internal/console/storage"
	"github.com/greenhouse-iot/console/internal/logging"
)

// sessionService is the session-store surface the views use.
// *session.Store satisfies it.
type sessionService interface {
	Authed() bool
	User() *models.User
	Initialize(ctx context.Context) error
	Login(ctx context.Context, username, password string) bool
	Logout(ctx context.Context)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	Refresh(ctx context.Context)
}

// platformAPI is the remote-data surface the views use. *api.Client
// satisfies it.
type platformAPI interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
	AssignDevice(ctx context.Context, mac, userID string) error
	DeleteDevice(ctx context.Context, mac string) error
	GetSettings(ctx context.Context, mac string) (*models.DeviceSettings, error)
	UpdateSettings(ctx context.Context, mac string, s models.Settings) error
	GetTelemetry(ctx context.Context, mac string, limit int) ([]models.Telemetry, error)
	GetTelemetryRange(ctx context.Context, mac string) (*models.TelemetryRange, error)
	ListUsers(ctx context.Context) ([]models.DirectoryUser, error)
	CreateUser(ctx context.Context, username, password, role string) error
	UpdateUser(ctx context.Context, id string, upd api.UserUpdate) error
	DeleteUser(ctx context.Context, id string) error
}

// pager is the slice of paginate.Paginator the page-navigation commands
// need, independent of the element type.
type pager interface {
	Page() int
	SetPage(n int)
	TotalPages() int
}

// App wires the session store, the platform API and the interactive views
// together.
type App struct {
	config   *config.Config
	session  sessionService
	api      platformAPI
	validate *validator.Validate
	log      zerolog.Logger

	reader *bufio.Reader
	out    io.Writer

	// current list view, if any; redraw re-renders it after page moves
	pager  pager
	redraw func()
}

// NewApp builds the console against a real platform API and the local
// durable store.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.Get()

	db, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("cli: open local store: %w", err)
	}

	apiClient, err := api.NewClient(api.Options{
		Addr:    cfg.ServerEndpointAddr,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	kv := storage.NewSQLiteRepository(db)
	store := session.NewStore(apiClient, kv, log)

	return &App{
		config:   cfg,
		session:  store,
		api:      apiClient,
		validate: validator.New(),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores any persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) error {
	if err := a.session.Initialize(ctx); err != nil {
		return err
	}
	if u := a.session.User(); u != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n", u.UserName)
	}
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}

// status renders the prompt decoration: the signed-in user, if any.
func (a *App) status() string {
	if u := a.session.User(); u != nil {
		return "(" + u.UserName + ")"
	}
	return ""
}

// Authed reports whether a user is signed in.
func (a *App) Authed() bool {
	return a.session.Authed()
}

// allow consults the route guard for the named view and follows its
// verdict. It returns true when the view may render. Redirects are acted
// on: an anonymous user is pointed at login, a first-login user is pushed
// into the forced reset flow, and an unauthorized user lands on the device
// list.
func (a *App) allow(ctx context.Context, requiredRole, route string) bool {
	switch guard.Decide(a.session.Authed(), a.session.User(), requiredRole, route) {
	case guard.Grant:
		return true
	case guard.ToLogin:
		fmt.Fprintln(a.out, "Sign in first ('login').")
	case guard.ToReset:
		fmt.Fprintln(a.out, "You must set a new password before continuing.")
		_ = a.forcedReset(ctx)
	case guard.ToHome:
		fmt.Fprintln(a.out, "You are not authorized for that view.")
		_ = a.Devices(ctx)
	}
	return false
}

// setListView installs the active paginator and its redraw callback, then
// draws the first page.
func (a *App) setListView(p pager, redraw func()) {
	a.pager = p
	a.redraw = redraw
	redraw()
}

// clearListView drops the active paginator, e.g. on logout.
func (a *App) clearListView() {
	a.pager = nil
	a.redraw = nil
}

// NextPage advances the current list view one page, stopping at the last.
func (a *App) NextPage() {
	if a.pager == nil {
		return
	}
	if n := a.pager.Page() + 1; n <= a.pager.TotalPages() {
		a.pager.SetPage(n)
	}
	a.redraw()
}

// PrevPage moves the current list view one page back, stopping at 1.
func (a *App) PrevPage() {
	if a.pager == nil {
		return
	}
	if n := a.pager.Page() - 1; n >= 1 {
		a.pager.SetPage(n)
	}
	a.redraw()
}

// GotoPage jumps the current list view to page n verbatim; an out-of-range
// page renders empty until corrected, matching the paginator contract.
func (a *App) GotoPage(n int) {
	if a.pager == nil {
		return
	}
	a.pager.SetPage(n)
	a.redraw()
}

func (a *App) pageFooter(p pager) string {
	return fmt.Sprintf("page %d/%d  (next/prev/page N)", p.Page(), p.TotalPages())
}
