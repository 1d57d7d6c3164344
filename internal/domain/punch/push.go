package punch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key names used by ZKTeco and ESSL firmware and middleware. The first key
// present wins.
var (
	serialKeys = []string{"SN", "sn", "serial_number", "device_serial", "DeviceSerial"}
	userKeys   = []string{"user_id", "PIN", "pin", "emp_code", "biometric_id", "EmployeeCode"}
	timeKeys   = []string{"timestamp", "punch_time", "att_time", "DateTime", "LogDate"}
	statusKeys = []string{"status", "punch", "punch_state", "att_state", "Direction"}
	verifyKeys = []string{"verify_type", "verify", "VerifyMode"}
	recordKeys = []string{"records", "data", "logs", "AttLog"}
)

var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04",
}

// PushPayload is a normalised push body.
type PushPayload struct {
	Serial  string
	Records []Record
	Skipped int
}

// ParsePushPayload reads a JSON or form push body. Records come from the
// first array found under a record key, or from the payload itself. Records
// without a user or a readable time are skipped and counted; a bare payload
// carrying neither is empty rather than skipped.
func ParsePushPayload(payload map[string]any, loc *time.Location) (PushPayload, error) {
	var out PushPayload
	out.Serial = stringValue(first(payload, serialKeys))

	items := []map[string]any{payload}
	listed := false
	for _, key := range recordKeys {
		list, ok := payload[key].([]any)
		if !ok {
			continue
		}
		items, listed = items[:0], true
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			} else {
				out.Skipped++
			}
		}
		break
	}

	for _, item := range items {
		if out.Serial == "" {
			out.Serial = stringValue(first(item, serialKeys))
		}

		biometricID := stringValue(first(item, userKeys))
		rawTime := first(item, timeKeys)
		if !listed && biometricID == "" && rawTime == nil {
			continue
		}
		if biometricID == "" || rawTime == nil {
			out.Skipped++
			continue
		}
		ts, err := ParseTime(rawTime, loc)
		if err != nil {
			out.Skipped++
			continue
		}

		rec := Record{BiometricID: biometricID, Timestamp: ts}
		if status := first(item, statusKeys); status != nil {
			rec.StatusCode = ParseStatus(stringValue(status))
		}
		if verify := first(item, verifyKeys); verify != nil {
			rec.VerifyType, _ = strconv.Atoi(stringValue(verify))
		}
		out.Records = append(out.Records, rec)
	}

	if len(out.Records) == 0 && out.Skipped == 0 {
		return out, ErrEmptyPayload
	}
	return out, nil
}

// ParseADMSAttLog reads the ATTLOG table body a ZKTeco device posts to
// /iclock/cdata: one record per line, tab separated as
// PIN, time, status, verify, workcode. Malformed lines are skipped and
// counted.
func ParseADMSAttLog(body string, loc *time.Location) ([]Record, int) {
	var (
		records []Record
		skipped int
	)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var fields []string
		if strings.Contains(line, "\t") {
			fields = strings.Split(line, "\t")
		} else {
			parts := strings.Fields(line)
			if len(parts) < 3 {
				skipped++
				continue
			}
			fields = append([]string{parts[0], parts[1] + " " + parts[2]}, parts[3:]...)
		}
		if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" {
			skipped++
			continue
		}

		ts, err := ParseTime(strings.TrimSpace(fields[1]), loc)
		if err != nil {
			skipped++
			continue
		}

		rec := Record{BiometricID: strings.TrimSpace(fields[0]), Timestamp: ts}
		if len(fields) > 2 {
			rec.StatusCode = ParseStatus(fields[2])
		}
		if len(fields) > 3 {
			rec.VerifyType, _ = strconv.Atoi(strings.TrimSpace(fields[3]))
		}
		records = append(records, rec)
	}

	return records, skipped
}

// ParseTime accepts unix seconds (or milliseconds), RFC 3339, or one of
// the local layouts devices use, interpreted in loc.
func ParseTime(v any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch t := v.(type) {
	case float64:
		return fromUnix(int64(t)), nil
	case int64:
		return fromUnix(t), nil
	case int:
		return fromUnix(int64(t)), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", t, err)
		}
		return fromUnix(n), nil
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return fromUnix(n), nil
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts, nil
		}
		for _, layout := range localLayouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
}

func fromUnix(n int64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

func first(m map[string]any, keys []string) any {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case []string:
		if len(t) > 0 {
			return strings.TrimSpace(t[0])
		}
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
