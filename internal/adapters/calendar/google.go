package calendar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tandem/internal/core/schedule"
	perr "tandem/internal/platform/errors"
)

const (
	googleBaseURL  = "https://www.googleapis.com/calendar/v3"
	googleTokenURL = "https://oauth2.googleapis.com/token"
)

// Google is the Calendar v3 client
type Google struct {
	client
}

// NewGoogle creates a Google Calendar client with sane defaults
func NewGoogle(o Options) *Google {
	return &Google{client: newClient(o, "google", googleBaseURL, googleTokenURL)}
}

// Kind implements Provider
func (g *Google) Kind() Kind { return KindGoogle }

// googleFreeBusyReq is the freeBusy query body
type googleFreeBusyReq struct {
	TimeMin string         `json:"timeMin"`
	TimeMax string         `json:"timeMax"`
	Items   []googleCalRef `json:"items"`
}

type googleCalRef struct {
	ID string `json:"id"`
}

// googleFreeBusyResp is the partial freeBusy response we use
type googleFreeBusyResp struct {
	Calendars map[string]googleCalBusy `json:"calendars"`
}

type googleCalBusy struct {
	Busy   []googlePeriod `json:"busy"`
	Errors []struct {
		Reason string `json:"reason"`
	} `json:"errors"`
}

type googlePeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FreeBusy implements Provider via the freeBusy query endpoint
func (g *Google) FreeBusy(ctx context.Context, creds Credentials, rng schedule.Range) ([]schedule.Interval, error) {
	ids := creds.CalendarIDs
	if len(ids) == 0 {
		ids = []string{"primary"}
	}
	body := googleFreeBusyReq{
		TimeMin: rng.Start.UTC().Format(time.RFC3339),
		TimeMax: rng.End.UTC().Format(time.RFC3339),
	}
	for _, id := range ids {
		body.Items = append(body.Items, googleCalRef{ID: id})
	}

	var out googleFreeBusyResp
	if err := g.do(ctx, &creds, http.MethodPost, g.opts.BaseURL+"/freeBusy", body, &out); err != nil {
		return nil, err
	}

	var busy []schedule.Interval
	for id, cal := range out.Calendars {
		if len(cal.Errors) > 0 {
			g.log.Warn().Str("calendar", id).Str("reason", cal.Errors[0].Reason).Msg("google freebusy calendar error")
		}
		for _, p := range cal.Busy {
			busy = append(busy, schedule.Interval{Start: p.Start, End: p.End})
		}
	}
	return schedule.Merge(busy), nil
}

// googleEvent is the partial events document we read and write
type googleEvent struct {
	ID        string           `json:"id,omitempty"`
	Summary   string           `json:"summary,omitempty"`
	Start     googleEventTime  `json:"start"`
	End       googleEventTime  `json:"end"`
	Attendees []googleAttendee `json:"attendees,omitempty"`
}

type googleEventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type googleAttendee struct {
	Email string `json:"email"`
}

// CreateEvent implements Provider via events insert
func (g *Google) CreateEvent(ctx context.Context, creds Credentials, ev Event) (string, error) {
	calID := ev.CalendarID
	if calID == "" {
		calID = "primary"
	}
	body := googleEvent{
		Summary: ev.Summary,
		Start:   googleEventTime{DateTime: ev.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:     googleEventTime{DateTime: ev.End.UTC().Format(time.RFC3339), TimeZone: "UTC"},
	}
	for _, a := range ev.Attendees {
		body.Attendees = append(body.Attendees, googleAttendee{Email: a})
	}

	u := fmt.Sprintf("%s/calendars/%s/events", g.opts.BaseURL, url.PathEscape(calID))
	var out googleEvent
	if err := g.do(ctx, &creds, http.MethodPost, u, body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", perr.CalendarSyncf(nil, "google event insert returned no id")
	}
	return out.ID, nil
}

// DeleteEvent implements Provider. Mirrored events live on the primary
// calendar; a 404 means the event is already gone which is fine
func (g *Google) DeleteEvent(ctx context.Context, creds Credentials, id string) error {
	u := fmt.Sprintf("%s/calendars/primary/events/%s", g.opts.BaseURL, url.PathEscape(id))
	err := g.do(ctx, &creds, http.MethodDelete, u, nil, nil)
	if IsStatus(err, http.StatusNotFound) {
		return nil
	}
	return err
}
