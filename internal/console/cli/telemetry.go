package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/greenhouse-iot/console/internal/console/models"
	"github.com/greenhouse-iot/console/internal/console/paginate"
	"github.com/greenhouse-iot/console/internal/console/telemetryx"
)

const telemetryFetchLimit = 100

const dateLayout = "2006-01-02"

// Telemetry renders the recent samples of one device together with its
// recorded span and online state. from and to are optional "YYYY-MM-DD"
// bounds, both inclusive, applied to the fetched rows before pagination.
// Samples flagged tampered inside the armed alarm window get an ALARM
// marker; fetching the settings for that marker is best effort, the table
// renders without it if they cannot be loaded.
func (a *App) Telemetry(ctx context.Context, mac, from, to string) error {
	if !a.allow(ctx, "", "telemetry") {
		return nil
	}

	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			fmt.Fprintf(a.out, "Not a YYYY-MM-DD date: %s\n", d)
			return nil
		}
	}
	if from != "" && to != "" && from > to {
		fmt.Fprintln(a.out, "The start date is after the end date.")
		return nil
	}

	rng, err := a.api.GetTelemetryRange(ctx, mac)
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	samples, err := a.api.GetTelemetry(ctx, mac, telemetryFetchLimit)
	if err != nil {
		a.reportAPIError(err)
		return err
	}
	samples = filterByDate(samples, from, to)

	var security *models.Security
	if settings, err := a.api.GetSettings(ctx, mac); err == nil {
		security = &settings.Security
	}

	a.renderRange(mac, rng)
	p := paginate.New(samples, a.config.RowsPerPage)
	a.setListView(p, func() { a.renderTelemetry(p, security) })
	return nil
}

func (a *App) renderRange(mac string, rng *models.TelemetryRange) {
	state := "offline"
	if rng.Online {
		state = "online"
	}
	first, last := "-", "-"
	if rng.First != nil {
		first = rng.First.Format("2006-01-02 15:04")
	}
	if rng.Last != nil {
		last = rng.Last.Format("2006-01-02 15:04")
	}
	fmt.Fprintf(a.out, "Device %s is %s, data from %s to %s\n", mac, state, first, last)
}

func (a *App) renderTelemetry(p *paginate.Paginator[models.Telemetry], security *models.Security) {
	fmt.Fprintf(a.out, "%-16s  %6s  %5s  %5s  %6s  %-5s  %s\n",
		"TIME", "TEMP", "HUM", "SOIL", "LUX", "WATER", "FLAGS")
	for _, t := range p.PageData() {
		fmt.Fprintf(a.out, "%-16s  %5.1fC  %4.0f%%  %4.0f%%  %6.0f  %-5s  %s\n",
			t.Timestamp.Format("01-02 15:04:05"),
			t.Temperature, t.Humidity, t.Soil, t.Lux,
			telemetryx.WaterGauge(t.Level),
			sampleFlags(t, security))
	}
	fmt.Fprintln(a.out, a.pageFooter(p))
}

// filterByDate keeps the samples whose calendar date falls inside the
// inclusive [from, to] range. An empty bound leaves that side open.
func filterByDate(samples []models.Telemetry, from, to string) []models.Telemetry {
	if from == "" && to == "" {
		return samples
	}
	kept := make([]models.Telemetry, 0, len(samples))
	for _, s := range samples {
		day := s.Timestamp.Format(dateLayout)
		if from != "" && day < from {
			continue
		}
		if to != "" && day > to {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// sampleFlags builds the flag column: motion, tamper and, when the tamper
// happened inside the armed alarm window, ALARM.
func sampleFlags(t models.Telemetry, security *models.Security) string {
	flags := ""
	if t.Motion {
		flags += " motion"
	}
	if t.Tamper {
		flags += " tamper"
		if security != nil && security.Armed &&
			telemetryx.InWindow(t.Timestamp.Format("15:04"),
				security.AlarmWindow.Start, security.AlarmWindow.End) {
			flags += " ALARM"
		}
	}
	if flags == "" {
		return "-"
	}
	return flags[1:]
}
