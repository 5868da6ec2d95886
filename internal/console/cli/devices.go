package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenhouse-iot/console/internal/console/api"
	"github.com/greenhouse-iot/console/internal/console/guard"
	"github.com/greenhouse-iot/console/internal/console/models"
	"github.com/greenhouse-iot/console/internal/console/paginate"
)

// Devices renders the device list, the console's home view. Every signed-in
// user may see it; owner columns are only meaningful to admins, regular
// users receive their own devices from the platform.
func (a *App) Devices(ctx context.Context) error {
	if !a.allow(ctx, "", guard.HomeRoute) {
		return nil
	}

	devices, err := a.api.ListDevices(ctx)
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	p := paginate.New(devices, a.config.RowsPerPage)
	a.setListView(p, func() { a.renderDevices(ctx, p) })
	return nil
}

func (a *App) renderDevices(ctx context.Context, p *paginate.Paginator[models.Device]) {
	fmt.Fprintf(a.out, "%-17s  %-20s  %-8s  %s\n", "MAC", "NAME", "STATUS", "OWNER")
	for _, d := range p.PageData() {
		owner := "-"
		if d.OwnerUserName != nil {
			owner = *d.OwnerUserName
		}
		fmt.Fprintf(a.out, "%-17s  %-20s  %-8s  %s\n", d.Mac, d.Name, a.deviceStatus(ctx, d.Mac), owner)
	}
	fmt.Fprintln(a.out, a.pageFooter(p))
}

// deviceStatus derives the online/offline column from the device's
// telemetry range. The device DTO itself carries no status field, and only
// the visible page is looked up, one call per row.
func (a *App) deviceStatus(ctx context.Context, mac string) string {
	rng, err := a.api.GetTelemetryRange(ctx, mac)
	if err != nil || rng == nil {
		return "-"
	}
	if rng.Online {
		return "online"
	}
	return "offline"
}

// AssignDevice hands a device to a user. Admin only.
func (a *App) AssignDevice(ctx context.Context, mac, userID string) error {
	if !a.allow(ctx, models.RoleAdmin, guard.HomeRoute) {
		return nil
	}

	if err := a.api.AssignDevice(ctx, mac, userID); err != nil {
		a.reportAPIError(err)
		return err
	}
	fmt.Fprintf(a.out, "Device %s assigned to %s\n", mac, userID)
	return nil
}

// RemoveDevice deletes a device from the platform. Admin only.
func (a *App) RemoveDevice(ctx context.Context, mac string) error {
	if !a.allow(ctx, models.RoleAdmin, guard.HomeRoute) {
		return nil
	}

	if err := a.api.DeleteDevice(ctx, mac); err != nil {
		a.reportAPIError(err)
		return err
	}
	fmt.Fprintf(a.out, "Device %s removed\n", mac)
	return nil
}

// reportAPIError prints a short user-facing message for a failed platform
// call. The session itself is left alone; an expired token shows up here as
// unauthorized and the user can re-login.
func (a *App) reportAPIError(err error) {
	switch {
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "The platform is unreachable, try again later.")
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintln(a.out, "Your session is no longer valid, please login again.")
	case errors.Is(err, api.ErrForbidden):
		fmt.Fprintln(a.out, "The platform rejected the request: not allowed.")
	case errors.Is(err, api.ErrNotFound):
		fmt.Fprintln(a.out, "Not found.")
	default:
		fmt.Fprintln(a.out, "Request failed:", err.Error())
	}
}
