package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// WindowReport is one decoded quota window. Nil fields were absent or
// unusable in the payload.
type WindowReport struct {
	Utilization *int
	ResetsAt    *time.Time
}

// UsageReport is the typed form of a usage endpoint response. A nil window
// means the payload did not carry that object.
type UsageReport struct {
	Session   *WindowReport
	Weekly    *WindowReport
	Secondary *WindowReport
}

type usageWindowPayload struct {
	Utilization *float64 `json:"utilization"`
	ResetsAt    *string  `json:"resets_at"`
}

type usagePayload struct {
	FiveHour       json.RawMessage `json:"five_hour"`
	SevenDay       json.RawMessage `json:"seven_day"`
	SevenDaySonnet json.RawMessage `json:"seven_day_sonnet"`
}

// ParseUsage decodes a usage endpoint body. It fails with ErrDecode only when
// the body is not a JSON object; missing or malformed windows are tolerated.
func ParseUsage(body []byte) (UsageReport, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return UsageReport{}, ErrDecode
	}

	var payload usagePayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return UsageReport{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return UsageReport{
		Session:   parseWindow(payload.FiveHour),
		Weekly:    parseWindow(payload.SevenDay),
		Secondary: parseWindow(payload.SevenDaySonnet),
	}, nil
}

func parseWindow(raw json.RawMessage) *WindowReport {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var payload usageWindowPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		// A window whose fields have the wrong types is kept as present but
		// carries nothing.
		return &WindowReport{}
	}

	report := &WindowReport{}
	if payload.Utilization != nil {
		utilization := int(*payload.Utilization)
		report.Utilization = &utilization
	}
	if payload.ResetsAt != nil {
		report.ResetsAt = ParseResetTime(*payload.ResetsAt)
	}

	return report
}

// ParseResetTime parses an RFC 3339 timestamp with optional fractional
// seconds. It returns nil when raw does not parse.
func ParseResetTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}

	return &parsed
}

// ApplyUsage copies a successfully parsed report into the account. Windows
// the report does not carry keep their previous values.
func ApplyUsage(account *Account, report UsageReport) {
	applyWindow(&account.Session, report.Session)
	applyWindow(&account.Weekly, report.Weekly)

	if report.Secondary != nil {
		account.HasSecondaryMetric = true
		applyWindow(&account.Secondary, report.Secondary)
	} else {
		account.HasSecondaryMetric = false
	}

	account.HasFetchedData = true
	account.ErrorMessage = ""
}

func applyWindow(window *UsageWindow, report *WindowReport) {
	if report == nil {
		return
	}

	if report.Utilization != nil {
		window.Usage = *report.Utilization
		window.Limit = defaultWindowLimit
	}
	if report.ResetsAt != nil {
		resetsAt := *report.ResetsAt
		window.ResetsAt = &resetsAt
	}
}
