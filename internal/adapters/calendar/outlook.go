package calendar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"tandem/internal/core/schedule"
	perr "tandem/internal/platform/errors"
)

const (
	outlookBaseURL  = "https://graph.microsoft.com/v1.0"
	outlookTokenURL = "https://login.microsoftonline.com/common/oauth2/v2.0/token"

	// graphTimeLayout is what Graph expects and emits alongside a TimeZone
	graphTimeLayout = "2006-01-02T15:04:05"
)

// Outlook is the Microsoft Graph calendar client
type Outlook struct {
	client
}

// NewOutlook creates a Microsoft Graph client with sane defaults
func NewOutlook(o Options) *Outlook {
	return &Outlook{client: newClient(o, "outlook", outlookBaseURL, outlookTokenURL)}
}

// Kind implements Provider
func (o *Outlook) Kind() Kind { return KindOutlook }

// graphScheduleReq is the getSchedule action body
type graphScheduleReq struct {
	Schedules                []string      `json:"schedules"`
	StartTime                graphDateTime `json:"startTime"`
	EndTime                  graphDateTime `json:"endTime"`
	AvailabilityViewInterval int           `json:"availabilityViewInterval"`
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// graphScheduleResp is the partial getSchedule response we use
type graphScheduleResp struct {
	Value []struct {
		ScheduleID    string              `json:"scheduleId"`
		ScheduleItems []graphScheduleItem `json:"scheduleItems"`
	} `json:"value"`
}

type graphScheduleItem struct {
	Status string        `json:"status"`
	Start  graphDateTime `json:"start"`
	End    graphDateTime `json:"end"`
}

// FreeBusy implements Provider via the getSchedule action. Graph needs
// mailbox addresses to consult, so an account with none configured
// contributes nothing
func (o *Outlook) FreeBusy(ctx context.Context, creds Credentials, rng schedule.Range) ([]schedule.Interval, error) {
	if len(creds.CalendarIDs) == 0 {
		o.log.Warn().Msg("outlook account has no mailbox addresses configured")
		return nil, nil
	}
	body := graphScheduleReq{
		Schedules:                creds.CalendarIDs,
		StartTime:                graphDateTime{DateTime: rng.Start.UTC().Format(graphTimeLayout), TimeZone: "UTC"},
		EndTime:                  graphDateTime{DateTime: rng.End.UTC().Format(graphTimeLayout), TimeZone: "UTC"},
		AvailabilityViewInterval: 30,
	}

	var out graphScheduleResp
	if err := o.do(ctx, &creds, http.MethodPost, o.opts.BaseURL+"/me/calendar/getSchedule", body, &out); err != nil {
		return nil, err
	}

	var busy []schedule.Interval
	for _, sched := range out.Value {
		for _, item := range sched.ScheduleItems {
			if !graphBusyStatus(item.Status) {
				continue
			}
			start, err := parseGraphTime(item.Start.DateTime)
			if err != nil {
				o.log.Warn().Str("raw", item.Start.DateTime).Msg("outlook unparseable schedule time")
				continue
			}
			end, err := parseGraphTime(item.End.DateTime)
			if err != nil {
				o.log.Warn().Str("raw", item.End.DateTime).Msg("outlook unparseable schedule time")
				continue
			}
			busy = append(busy, schedule.Interval{Start: start, End: end})
		}
	}
	return schedule.Merge(busy), nil
}

// graphBusyStatus reports whether a schedule item blocks the slot.
// free, workingElsewhere and unknown do not
func graphBusyStatus(s string) bool {
	switch s {
	case "busy", "oof", "tentative":
		return true
	default:
		return false
	}
}

// graphEvent is the partial events document we read and write
type graphEvent struct {
	ID        string          `json:"id,omitempty"`
	Subject   string          `json:"subject,omitempty"`
	Start     graphDateTime   `json:"start"`
	End       graphDateTime   `json:"end"`
	Attendees []graphAttendee `json:"attendees,omitempty"`
}

type graphAttendee struct {
	EmailAddress graphEmail `json:"emailAddress"`
	Type         string     `json:"type"`
}

type graphEmail struct {
	Address string `json:"address"`
}

// CreateEvent implements Provider via events create
func (o *Outlook) CreateEvent(ctx context.Context, creds Credentials, ev Event) (string, error) {
	body := graphEvent{
		Subject: ev.Summary,
		Start:   graphDateTime{DateTime: ev.Start.UTC().Format(graphTimeLayout), TimeZone: "UTC"},
		End:     graphDateTime{DateTime: ev.End.UTC().Format(graphTimeLayout), TimeZone: "UTC"},
	}
	for _, a := range ev.Attendees {
		body.Attendees = append(body.Attendees, graphAttendee{EmailAddress: graphEmail{Address: a}, Type: "required"})
	}

	u := o.opts.BaseURL + "/me/events"
	if ev.CalendarID != "" {
		u = fmt.Sprintf("%s/me/calendars/%s/events", o.opts.BaseURL, url.PathEscape(ev.CalendarID))
	}
	var out graphEvent
	if err := o.do(ctx, &creds, http.MethodPost, u, body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", perr.CalendarSyncf(nil, "outlook event create returned no id")
	}
	return out.ID, nil
}

// DeleteEvent implements Provider; a 404 means the event is already gone
func (o *Outlook) DeleteEvent(ctx context.Context, creds Credentials, id string) error {
	err := o.do(ctx, &creds, http.MethodDelete, o.opts.BaseURL+"/me/events/"+url.PathEscape(id), nil, nil)
	if IsStatus(err, http.StatusNotFound) {
		return nil
	}
	return err
}
