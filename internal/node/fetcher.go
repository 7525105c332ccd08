package node

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nstake/nstake/internal/errors"
)

// maxReportBytes caps how much of a report body is read.
const maxReportBytes = 1 << 20

// Fetcher retrieves the raw report body for a staker's base URL.
type Fetcher interface {
	Fetch(ctx context.Context, baseURL string) ([]byte, error)
}

// HTTPFetcher fetches reports with a plain GET. There is no retry; a
// zero timeout leaves requests unbounded except by ctx.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the given client timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch issues GET {baseURL}/report.json.
func (f *HTTPFetcher) Fetch(ctx context.Context, baseURL string) ([]byte, error) {
	target := ReportURL(baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch, "Can't build request for "+target, "")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Can't reach "+target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrFetch,
			fmt.Sprintf("%s returned %d", target, resp.StatusCode), "")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes))
	if err != nil {
		return nil, errors.Wrap(err, "Failed reading "+target)
	}
	return body, nil
}
