package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// StatusError carries a non retryable provider status for callers that
// branch on it, deleting an already deleted event being the main one
type StatusError struct {
	Status int
	Body   string
}

// Error interface
func (e *StatusError) Error() string { return fmt.Sprintf("provider status %d", e.Status) }

// IsStatus reports whether err carries a StatusError with the given code
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// parseGraphTime parses Microsoft Graph dateTime strings, which drop the
// zone suffix when a TimeZone is requested alongside
func parseGraphTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
