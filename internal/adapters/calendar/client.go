package calendar

import (
	"bytes"
	"context"
	json "encoding/json/v2"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "tandem/internal/platform/errors"
	"tandem/internal/platform/logger"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUA        = "tandem-calendar"
	defaultMaxRetry  = 4
	defaultRetryBase = 500 * time.Millisecond
)

// Options configures a provider client
type Options struct {
	// BaseURL and TokenURL override the provider endpoints, mainly for tests
	BaseURL  string
	TokenURL string

	UserAgent string
	Timeout   time.Duration

	// OAuth client used for refresh token grants
	ClientID     string
	ClientSecret string

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration

	// OnRefresh runs after a successful token refresh so the owner can
	// persist the rotated credentials. Optional
	OnRefresh func(ctx context.Context, creds Credentials)
}

// client is the retrying HTTP core shared by both provider clients
type client struct {
	name  string
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

func newClient(o Options, name, baseURL, tokenURL string) client {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.TokenURL == "" {
		o.TokenURL = tokenURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return client{
		name:  name,
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named(name),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// do issues one JSON request with bounded retries and at most one token
// refresh. creds is updated in place when a refresh rotates the tokens.
// body may be nil; a non nil out receives the decoded 2xx payload
func (c *client) do(ctx context.Context, creds *Credentials, method, requestURL string, body, out any) error {
	refreshed := false
	if !creds.Expiry.IsZero() && !creds.Expiry.After(c.now()) {
		if err := c.refresh(ctx, creds); err != nil {
			return err
		}
		refreshed = true
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "%s encode request", c.name)
		}
		payload = b
	}

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return perr.TimeoutErrf("%s call timed out", c.name)
			}
			return ctx.Err()
		default:
		}

		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, requestURL, rd)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "%s new request failed", c.name)
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if isTimeout(err) {
				return perr.TimeoutErrf("%s call timed out", c.name)
			}
			if !c.shouldRetry(attempts) {
				return perr.CalendarSyncf(err, "%s transport failed", c.name)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("calendar transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("method", method).
			Str("url", requestURL).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("calendar http response")

		switch {
		case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
			return c.decode(resp, out)
		case resp.StatusCode == http.StatusUnauthorized:
			_ = drainAndClose(resp.Body)
			if refreshed {
				return perr.CalendarSyncf(nil, "%s rejected token after refresh", c.name)
			}
			if err := c.refresh(ctx, creds); err != nil {
				return err
			}
			refreshed = true
			continue
		case resp.StatusCode == http.StatusForbidden:
			_ = drainAndClose(resp.Body)
			return perr.PermissionDeniedf("%s denied access", c.name)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			retryAfter := atoi(resp.Header.Get("Retry-After"))
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return perr.CalendarSyncf(
					&StatusError{Status: resp.StatusCode},
					"%s still failing after %d attempts", c.name, attempts+1)
			}
			wait := c.backoff(attempts)
			if retryAfter > 0 {
				wait = time.Duration(retryAfter) * time.Second
			}
			c.log.Warn().Dur("retry_in", wait).Int("status", resp.StatusCode).Msg("calendar transient error retrying")
			c.sleep(wait)
			attempts++
			continue
		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return perr.CalendarSyncf(
				&StatusError{Status: resp.StatusCode, Body: string(tail)},
				"%s unexpected status %d", c.name, resp.StatusCode)
		}
	}
}

func (c *client) decode(resp *http.Response, out any) error {
	if out == nil {
		_ = drainAndClose(resp.Body)
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if cerr := resp.Body.Close(); cerr != nil {
		c.log.Error().Err(cerr).Msg("calendar close body failed")
	}
	if err != nil {
		return perr.CalendarSyncf(err, "%s read response", c.name)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "%s decode response", c.name)
	}
	return nil
}

// refresh exchanges the refresh token for a new access token. Failures
// surface as CalendarSync so one broken account never fails a whole sweep
func (c *client) refresh(ctx context.Context, creds *Credentials) error {
	if creds.RefreshToken == "" {
		return perr.CalendarSyncf(nil, "%s access token expired and no refresh token on file", c.name)
	}
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {creds.RefreshToken},
		"client_id":     {c.opts.ClientID},
		"client_secret": {c.opts.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "%s token request failed", c.name)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return perr.TimeoutErrf("%s token refresh timed out", c.name)
		}
		return perr.CalendarSyncf(err, "%s token refresh failed", c.name)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("calendar close token body failed")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return perr.CalendarSyncf(
			&StatusError{Status: resp.StatusCode, Body: string(tail)},
			"%s token refresh rejected", c.name)
	}

	var tok struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return perr.CalendarSyncf(err, "%s read token response", c.name)
	}
	if err := json.Unmarshal(b, &tok); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "%s decode token response", c.name)
	}
	if tok.AccessToken == "" {
		return perr.CalendarSyncf(nil, "%s token response missing access_token", c.name)
	}

	creds.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		creds.RefreshToken = tok.RefreshToken
	}
	if tok.ExpiresIn > 0 {
		creds.Expiry = c.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	c.log.Info().Msg("calendar access token refreshed")
	if c.opts.OnRefresh != nil {
		c.opts.OnRefresh(ctx, *creds)
	}
	return nil
}

func (c *client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
