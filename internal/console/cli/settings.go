package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Settings shows the environmental configuration of one device.
func (a *App) Settings(ctx context.Context, mac string) error {
	if !a.allow(ctx, "", "settings") {
		return nil
	}

	s, err := a.api.GetSettings(ctx, mac)
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	fmt.Fprintf(a.out, "Settings for %s (updated %s)\n", s.DeviceMac, s.UpdatedAt)
	fmt.Fprintf(a.out, "  watering: manual=%v soil %d-%d%%\n", s.Watering.Manual, s.Watering.SoilMin, s.Watering.SoilMax)
	fmt.Fprintf(a.out, "  vent:     manual=%v humidity %d-%d%%\n", s.Vent.Manual, s.Vent.HumLo, s.Vent.HumHi)
	fmt.Fprintf(a.out, "  security: armed=%v window %s-%s\n", s.Security.Armed, s.Security.AlarmWindow.Start, s.Security.AlarmWindow.End)
	return nil
}

// EditSettings walks the user through the editable fields, validates the
// result and pushes it to the platform. Empty input keeps the current value.
func (a *App) EditSettings(ctx context.Context, mac string) error {
	if !a.allow(ctx, "", "settings") {
		return nil
	}

	current, err := a.api.GetSettings(ctx, mac)
	if err != nil {
		a.reportAPIError(err)
		return err
	}
	body := current.Body()

	if body.Watering.Manual, err = a.promptBool("Watering manual", body.Watering.Manual); err != nil {
		return err
	}
	if body.Watering.SoilMin, err = a.promptInt("Soil lower threshold % (20-60)", body.Watering.SoilMin); err != nil {
		return err
	}
	if body.Watering.SoilMax, err = a.promptInt("Soil upper threshold % (40-80)", body.Watering.SoilMax); err != nil {
		return err
	}
	if body.Vent.Manual, err = a.promptBool("Vent manual", body.Vent.Manual); err != nil {
		return err
	}
	if body.Vent.HumLo, err = a.promptInt("Humidity lower bound % (35-55)", body.Vent.HumLo); err != nil {
		return err
	}
	if body.Vent.HumHi, err = a.promptInt("Humidity upper bound % (45-70)", body.Vent.HumHi); err != nil {
		return err
	}
	if body.Security.Armed, err = a.promptBool("Alarm armed", body.Security.Armed); err != nil {
		return err
	}
	if body.Security.AlarmWindow.Start, err = a.promptClock("Alarm window start (HH:MM)", body.Security.AlarmWindow.Start); err != nil {
		return err
	}
	if body.Security.AlarmWindow.End, err = a.promptClock("Alarm window end (HH:MM)", body.Security.AlarmWindow.End); err != nil {
		return err
	}

	if err := a.validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fmt.Fprintf(a.out, "Invalid value for %s (%s)\n", fe.Field(), fe.Tag())
			}
		}
		fmt.Fprintln(a.out, "Settings not saved.")
		return nil
	}

	if err := a.api.UpdateSettings(ctx, mac, body); err != nil {
		a.reportAPIError(err)
		return err
	}
	fmt.Fprintln(a.out, "Settings saved.")
	return nil
}

func (a *App) promptBool(prompt string, def bool) (bool, error) {
	value, err := getSimpleTextDefault(a.reader, prompt+" (true/false)", strconv.FormatBool(def), a.out)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		fmt.Fprintln(a.out, "Not a boolean, keeping", def)
		return def, nil
	}
	return b, nil
}

func (a *App) promptInt(prompt string, def int) (int, error) {
	value, err := getSimpleTextDefault(a.reader, prompt, strconv.Itoa(def), a.out)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintln(a.out, "Not a number, keeping", def)
		return def, nil
	}
	return n, nil
}

func (a *App) promptClock(prompt, def string) (string, error) {
	value, err := getSimpleTextDefault(a.reader, prompt, def, a.out)
	if err != nil {
		return "", err
	}
	if _, err := time.Parse("15:04", value); err != nil {
		fmt.Fprintln(a.out, "Not a HH:MM time, keeping", def)
		return def, nil
	}
	return value, nil
}
