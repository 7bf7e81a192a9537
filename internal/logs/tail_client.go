package logs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var ErrAPIUnavailable = errors.New("log API unavailable")

// TailClient fetches log lines from the daemon HTTP API.
type TailClient struct {
	base  *url.URL
	token string
	http  *http.Client
}

// TailQuery mirrors TailOptions for the wire. WaitMillis bounds follow mode on
// the server side.
type TailQuery struct {
	Offset     int64
	Limit      int
	Follow     bool
	WaitMillis int
}

// TailPage is the API response for a single tail request.
type TailPage struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// NewTailClient builds a client for the given API bind address. An empty bind
// yields a nil client so callers can fall back to IPC tailing.
func NewTailClient(bind, token string) (*TailClient, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, nil
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &TailClient{
		base:  base,
		token: strings.TrimSpace(token),
		// No timeout: follow mode blocks until the server's wait window closes.
		http: &http.Client{},
	}, nil
}

// Fetch requests one page of log lines.
func (c *TailClient) Fetch(ctx context.Context, q TailQuery) (TailPage, error) {
	if c == nil {
		return TailPage{}, ErrAPIUnavailable
	}

	values := url.Values{}
	values.Set("offset", strconv.FormatInt(q.Offset, 10))
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Follow {
		values.Set("follow", "1")
	}
	if q.WaitMillis > 0 {
		values.Set("wait", strconv.Itoa(q.WaitMillis))
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: "/api/logs", RawQuery: values.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return TailPage{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return TailPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return TailPage{}, fmt.Errorf("api logs returned status %d", resp.StatusCode)
	}

	var page TailPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return TailPage{}, err
	}
	return page, nil
}

// IsAPIUnavailable reports whether the error indicates the HTTP API cannot be
// reached, as opposed to a request that reached the daemon and failed.
func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrAPIUnavailable) || errors.As(err, &opErr)
}
