package node

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/report"
)

// ReportPath is appended to a staker's base URL to fetch its report.
const ReportPath = "/report.json"

// Staker is one monitored staking node.
//
// Stats and Updated are only ever replaced together, after a report has been
// fetched and derived successfully. In-flight fetches are tracked by the
// Monitor, never on the record, so a Staker always serializes cleanly.
type Staker struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	URL     string        `json:"url"`
	Stats   *report.Stats `json:"stats,omitempty"`
	Updated *time.Time    `json:"updated,omitempty"`
}

// NewStaker creates a staker with a fresh stable id.
func NewStaker(name, baseURL string) Staker {
	return Staker{
		ID:   uuid.NewString(),
		Name: name,
		URL:  baseURL,
	}
}

// ReportURL returns the report location for a base URL.
// A trailing slash on the base is tolerated.
func ReportURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + ReportPath
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrInput,
			"'"+raw+"' isn't a valid URL",
			"Use the node's base URL, like http://192.168.1.20:8080")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrInput,
			"'"+raw+"' needs an http:// or https:// scheme",
			"Use the node's base URL, like http://192.168.1.20:8080")
	}
	if u.Host == "" {
		return errors.New(errors.ErrInput,
			"'"+raw+"' has no host",
			"Use the node's base URL, like http://192.168.1.20:8080")
	}
	return nil
}

// ValidateName checks that a display name is not blank.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrInput, "Staker name is required", "Give the node a short display name")
	}
	return nil
}
