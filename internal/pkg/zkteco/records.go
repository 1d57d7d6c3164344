package zkteco

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
)

// Attendance is one punch read from the device log.
type Attendance struct {
	UID        uint16
	UserID     string
	Timestamp  time.Time
	VerifyType int
	PunchState int
}

// DecodeAttendance parses the attendance buffer returned for CmdAttLogRRQ.
// The first four bytes carry the payload size. recordSize may be 0 to let
// the decoder guess from the payload length (40, 16 or 8 bytes per record).
func DecodeAttendance(data []byte, recordSize int, loc *time.Location) ([]Attendance, error) {
	if len(data) < 4 {
		return nil, nil
	}
	total := int(binary.LittleEndian.Uint32(data[:4]))
	payload := data[4:]
	if total < len(payload) {
		payload = payload[:total]
	}
	if len(payload) == 0 {
		return nil, nil
	}

	if recordSize == 0 {
		switch {
		case len(payload)%40 == 0:
			recordSize = 40
		case len(payload)%16 == 0:
			recordSize = 16
		case len(payload)%8 == 0:
			recordSize = 8
		default:
			return nil, fmt.Errorf("%w: cannot infer record size from %d bytes", ErrBadFrame, len(payload))
		}
	}

	out := make([]Attendance, 0, len(payload)/recordSize)
	for off := 0; off+recordSize <= len(payload); off += recordSize {
		rec := payload[off : off+recordSize]
		var a Attendance
		switch recordSize {
		case 40:
			a.UID = binary.LittleEndian.Uint16(rec[0:])
			a.UserID = cString(rec[2:26])
			a.VerifyType = int(rec[26])
			a.Timestamp = DecodeTime(binary.LittleEndian.Uint32(rec[27:]), loc)
			a.PunchState = int(rec[31])
		case 16:
			id := binary.LittleEndian.Uint32(rec[0:])
			a.UserID = strconv.FormatUint(uint64(id), 10)
			a.Timestamp = DecodeTime(binary.LittleEndian.Uint32(rec[4:]), loc)
			a.VerifyType = int(rec[8])
			a.PunchState = int(rec[9])
		case 8:
			a.UID = binary.LittleEndian.Uint16(rec[0:])
			a.UserID = strconv.Itoa(int(a.UID))
			a.VerifyType = int(rec[2])
			a.Timestamp = DecodeTime(binary.LittleEndian.Uint32(rec[3:]), loc)
			a.PunchState = int(rec[7])
		default:
			return nil, fmt.Errorf("%w: unsupported record size %d", ErrBadFrame, recordSize)
		}
		if a.UserID == "" {
			a.UserID = strconv.Itoa(int(a.UID))
		}
		out = append(out, a)
	}
	return out, nil
}

// EncodeAttendance40 builds a 40 byte record. Used by tests and device simulators.
func EncodeAttendance40(a Attendance) []byte {
	rec := make([]byte, 40)
	binary.LittleEndian.PutUint16(rec[0:], a.UID)
	copy(rec[2:26], a.UserID)
	rec[26] = byte(a.VerifyType)
	binary.LittleEndian.PutUint32(rec[27:], EncodeTime(a.Timestamp))
	rec[31] = byte(a.PunchState)
	return rec
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}
