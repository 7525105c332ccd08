// Package report decodes the JSON status document served by a staking node
// at {url}/report.json and derives the display metrics nstake shows for it.
//
// Node reports are untrusted input. Every deviation from the expected shape
// (missing sections, non-numeric values, unparseable timestamps) makes Derive
// return an ErrReport coded error; it never panics.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nstake/nstake/internal/errors"
)

// Keys of the "report" section.
const (
	KeyLast7Days   = "Last 7 Days"
	KeyLast30Days  = "Last 30 Days"
	KeyLast365Days = "Last 365 Days"
	KeyLastAll     = "Last All"
	KeyLatestTime  = "Latest Time"
)

// Raw is the report document as served by the node. Values are kept as raw
// JSON so numbers and numeric strings are both accepted.
type Raw struct {
	Wallet map[string]json.RawMessage `json:"wallet"`
	Report map[string]json.RawMessage `json:"report"`
	Info   *Info                      `json:"info"`
}

// Info is the node's self-reported staking state.
type Info struct {
	Staking      bool            `json:"staking"`
	ExpectedTime json.RawMessage `json:"expectedtime"`
}

// Wallet holds the four balances that sum to Stats.Balance.
type Wallet struct {
	Balance     float64 `json:"balance"`
	ColdStaking float64 `json:"coldstaking_balance"`
	Immature    float64 `json:"immature_balance"`
	Unconfirmed float64 `json:"unconfirmed_balance"`
}

// Total returns the sum of all four balances.
func (w Wallet) Total() float64 {
	return w.Balance + w.ColdStaking + w.Immature + w.Unconfirmed
}

// Stats are the derived metrics persisted with each staker.
type Stats struct {
	Balance     float64    `json:"balance"`
	Wallet      Wallet     `json:"wallet"`
	Last7d      float64    `json:"last7d"`
	Last7dAvg   float64    `json:"last7dAvg"`
	Last30d     float64    `json:"last30d"`
	Last30dAvg  float64    `json:"last30dAvg"`
	Last365d    float64    `json:"last365d"`
	Last365dAvg float64    `json:"last365dAvg"`
	Alltime     float64    `json:"alltime"`
	Staking     bool       `json:"staking"`
	ETA         *time.Time `json:"eta,omitempty"`
	LastStake   time.Time  `json:"laststake"`
}

// Decode parses a report body. It only checks JSON syntax; shape checks
// happen in Derive. Trailing data after the document is a syntax error.
func Decode(body []byte) (*Raw, error) {
	var raw Raw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrReport,
			"Report is not valid JSON",
			"Check the node serves a JSON document at /report.json")
	}
	return &raw, nil
}

// Parse decodes body and derives its stats in one step.
func Parse(body []byte, now time.Time) (*Stats, error) {
	raw, err := Decode(body)
	if err != nil {
		return nil, err
	}
	return Derive(raw, now)
}

// Derive computes Stats from a decoded report. now anchors the ETA.
func Derive(raw *Raw, now time.Time) (*Stats, error) {
	if raw == nil || raw.Wallet == nil {
		return nil, missing("wallet")
	}
	if raw.Report == nil {
		return nil, missing("report")
	}

	var (
		s   Stats
		err error
	)

	walletFields := []struct {
		key string
		dst *float64
	}{
		{"balance", &s.Wallet.Balance},
		{"coldstaking_balance", &s.Wallet.ColdStaking},
		{"immature_balance", &s.Wallet.Immature},
		{"unconfirmed_balance", &s.Wallet.Unconfirmed},
	}
	for _, f := range walletFields {
		if *f.dst, err = field(raw.Wallet, "wallet", f.key); err != nil {
			return nil, err
		}
	}
	s.Balance = s.Wallet.Total()

	periods := []struct {
		key  string
		days float64
		val  *float64
		avg  *float64
	}{
		{KeyLast7Days, 7, &s.Last7d, &s.Last7dAvg},
		{KeyLast30Days, 30, &s.Last30d, &s.Last30dAvg},
		{KeyLast365Days, 365, &s.Last365d, &s.Last365dAvg},
	}
	for _, p := range periods {
		if *p.val, err = field(raw.Report, "report", p.key); err != nil {
			return nil, err
		}
		*p.avg = *p.val / p.days
	}

	if s.Alltime, err = field(raw.Report, "report", KeyLastAll); err != nil {
		return nil, err
	}

	latest, ok := raw.Report[KeyLatestTime]
	if !ok {
		return nil, missing("report['" + KeyLatestTime + "']")
	}
	if s.LastStake, err = ParseTime(latest); err != nil {
		return nil, err
	}

	if raw.Info != nil && raw.Info.Staking {
		s.Staking = true
		secs, err := Number(raw.Info.ExpectedTime)
		if err != nil {
			return nil, invalid("info.expectedtime", err)
		}
		if math.Abs(secs) > maxExpectedSeconds {
			return nil, invalid("info.expectedtime", fmt.Errorf("%g seconds is out of range", secs))
		}
		eta := now.Add(time.Duration(secs * float64(time.Second)))
		if !encodable(eta) {
			return nil, invalid("info.expectedtime", fmt.Errorf("eta %s is out of range", eta.Format(time.RFC3339)))
		}
		s.ETA = &eta
	}

	return &s, nil
}

func field(section map[string]json.RawMessage, name, key string) (float64, error) {
	v, ok := section[key]
	if !ok {
		return math.NaN(), missing(name + "['" + key + "']")
	}
	n, err := Number(v)
	if err != nil {
		return n, invalid(name+"['"+key+"']", err)
	}
	return n, nil
}

// Number parses a JSON number or a quoted numeric string. Anything else
// yields NaN and an error.
func Number(v json.RawMessage) (float64, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return math.NaN(), fmt.Errorf("no value")
	}

	var text string
	if v[0] == '"' {
		if err := json.Unmarshal(v, &text); err != nil {
			return math.NaN(), err
		}
	} else {
		text = string(v)
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("%q is not a number", text)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return math.NaN(), fmt.Errorf("%q is not a finite number", text)
	}
	return n, nil
}

// maxExpectedSeconds keeps expectedtime within what a time.Duration holds.
const maxExpectedSeconds = float64(math.MaxInt64 / int64(time.Second))

// encodable reports whether t survives time.Time.MarshalJSON, which only
// accepts years 0 through 9999.
func encodable(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 0 && y <= 9999
}

// timeLayouts are tried in order; layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime parses a quoted timestamp into UTC.
func ParseTime(v json.RawMessage) (time.Time, error) {
	var text string
	if err := json.Unmarshal(v, &text); err != nil {
		return time.Time{}, invalid("report['"+KeyLatestTime+"']", err)
	}
	text = strings.TrimSpace(text)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if !encodable(t) {
			return time.Time{}, invalid("report['"+KeyLatestTime+"']", fmt.Errorf("timestamp %q is out of range", text))
		}
		return t.UTC(), nil
	}
	return time.Time{}, invalid("report['"+KeyLatestTime+"']", fmt.Errorf("unrecognized timestamp %q", text))
}

func missing(what string) error {
	return errors.New(errors.ErrReport,
		"Report is missing "+what,
		"Check the node's report format")
}

func invalid(what string, cause error) error {
	return errors.WrapWithCode(cause, errors.ErrReport,
		"Report field "+what+" is invalid",
		"Check the node's report format")
}
