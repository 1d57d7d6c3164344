package punch

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

type PunchType string

const (
	PunchIn      PunchType = "in"
	PunchOut     PunchType = "out"
	PunchUnknown PunchType = "unknown"
)

type Source string

const (
	SourcePoll   Source = "poll"
	SourcePush   Source = "push"
	SourceManual Source = "manual"
)

// Event is one raw scan, kept as an audit trail after it has been folded
// into an attendance day.
type Event struct {
	ID          string
	DeviceID    *string
	BiometricID string
	UserID      *string
	PunchTime   time.Time
	PunchType   PunchType
	StatusCode  int
	VerifyType  int
	Source      Source
	Processed   bool
	RecordHash  string
	Remarks     *string
	CreatedAt   time.Time

	// Join
	DeviceName *string
	UserName   *string
}

// Record is a punch as read from a device, before it is matched to a user.
type Record struct {
	BiometricID string
	Timestamp   time.Time
	StatusCode  int
	VerifyType  int
}

// Hash identifies the record across overlapping reads from one device.
func (r Record) Hash(deviceID string) string {
	return RecordHash(deviceID, r.BiometricID, r.Timestamp, r.StatusCode)
}

// RecordHash is the hex sha1 of device, user, timestamp and status.
func RecordHash(deviceID, biometricID string, ts time.Time, status int) string {
	key := strings.Join([]string{
		deviceID,
		biometricID,
		ts.UTC().Format(time.RFC3339),
		strconv.Itoa(status),
	}, "|")
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// TypeFromStatus maps a ZK punch state to in or out. Break states are
// reported as unknown.
func TypeFromStatus(code int) PunchType {
	switch code {
	case 0, 4:
		return PunchIn
	case 1, 5:
		return PunchOut
	}
	return PunchUnknown
}

// StatusUnknown is stored when a device sends a state word we cannot map.
const StatusUnknown = -1

// ParseStatus accepts the numeric state or the words devices commonly send.
func ParseStatus(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	switch strings.NewReplacer("-", "", "_", "", " ", "").Replace(s) {
	case "in", "checkin", "i":
		return 0
	case "out", "checkout", "o":
		return 1
	case "overtimein", "otin":
		return 4
	case "overtimeout", "otout":
		return 5
	}
	return StatusUnknown
}
