// Package zkteco speaks the ZK TCP protocol used by ZKTeco and ESSL
// biometric terminals (default port 4370).
package zkteco

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Command codes.
const (
	CmdConnect       uint16 = 1000
	CmdExit          uint16 = 1001
	CmdEnableDevice  uint16 = 1002
	CmdDisableDevice uint16 = 1003
	CmdAuth          uint16 = 1102
	CmdPrepareData   uint16 = 1500
	CmdData          uint16 = 1501
	CmdFreeData      uint16 = 1502
	CmdPrepareBuffer uint16 = 1503
	CmdReadBuffer    uint16 = 1504
	CmdAttLogRRQ     uint16 = 13

	CmdAckOK     uint16 = 2000
	CmdAckError  uint16 = 2001
	CmdAckData   uint16 = 2002
	CmdAckUnauth uint16 = 2005
)

const (
	magic1 uint16 = 0x5050
	magic2 uint16 = 0x7D82

	headerSize = 8
	topSize    = 8
	ushrtMax   = 65535

	// Largest chunk requested with CmdReadBuffer over TCP.
	maxChunk = 0xFFC0
)

var (
	ErrBadFrame     = errors.New("zkteco: malformed frame")
	ErrUnauthorized = errors.New("zkteco: device rejected comm key")
	ErrUnexpected   = errors.New("zkteco: unexpected reply")
)

type header struct {
	Command   uint16
	Checksum  uint16
	SessionID uint16
	ReplyID   uint16
}

func checksum(buf []byte) uint16 {
	sum := 0
	i := 0
	for ; i+1 < len(buf); i += 2 {
		sum += int(binary.LittleEndian.Uint16(buf[i:]))
		if sum > ushrtMax {
			sum -= ushrtMax
		}
	}
	if i < len(buf) {
		sum += int(buf[i])
	}
	for sum > ushrtMax {
		sum -= ushrtMax
	}
	sum = ^sum
	for sum < 0 {
		sum += ushrtMax
	}
	return uint16(sum)
}

// encodePacket builds a TCP framed packet: an 8 byte top (magic + length)
// followed by the header and payload.
func encodePacket(cmd, session, reply uint16, payload []byte) []byte {
	body := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint16(body[0:], cmd)
	binary.LittleEndian.PutUint16(body[4:], session)
	binary.LittleEndian.PutUint16(body[6:], reply)
	copy(body[headerSize:], payload)
	binary.LittleEndian.PutUint16(body[2:], checksum(body))

	frame := make([]byte, topSize+len(body))
	binary.LittleEndian.PutUint16(frame[0:], magic1)
	binary.LittleEndian.PutUint16(frame[2:], magic2)
	binary.LittleEndian.PutUint32(frame[4:], uint32(len(body)))
	copy(frame[topSize:], body)
	return frame
}

// decodeTop validates the frame top and returns the body length.
func decodeTop(top []byte) (int, error) {
	if len(top) != topSize {
		return 0, ErrBadFrame
	}
	if binary.LittleEndian.Uint16(top[0:]) != magic1 || binary.LittleEndian.Uint16(top[2:]) != magic2 {
		return 0, ErrBadFrame
	}
	n := int(binary.LittleEndian.Uint32(top[4:]))
	if n < headerSize || n > 16<<20 {
		return 0, fmt.Errorf("%w: body length %d", ErrBadFrame, n)
	}
	return n, nil
}

func decodeBody(body []byte) (header, []byte, error) {
	if len(body) < headerSize {
		return header{}, nil, ErrBadFrame
	}
	h := header{
		Command:   binary.LittleEndian.Uint16(body[0:]),
		Checksum:  binary.LittleEndian.Uint16(body[2:]),
		SessionID: binary.LittleEndian.Uint16(body[4:]),
		ReplyID:   binary.LittleEndian.Uint16(body[6:]),
	}
	return h, body[headerSize:], nil
}

// MakeCommKey scrambles the numeric device password with the session id the
// way the firmware expects for CmdAuth.
func MakeCommKey(key uint32, session uint16, ticks byte) []byte {
	var k uint32
	for i := 0; i < 32; i++ {
		if key&(1<<uint(i)) != 0 {
			k = k<<1 | 1
		} else {
			k <<= 1
		}
	}
	k += uint32(session)

	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, k)
	b[0] ^= 'Z'
	b[1] ^= 'K'
	b[2] ^= 'S'
	b[3] ^= 'O'

	// swap the two 16 bit halves
	b[0], b[1], b[2], b[3] = b[2], b[3], b[0], b[1]

	return []byte{b[0] ^ ticks, b[1] ^ ticks, ticks, b[3] ^ ticks}
}

// DecodeTime converts the packed device timestamp into wall time in loc.
func DecodeTime(v uint32, loc *time.Location) time.Time {
	second := int(v % 60)
	v /= 60
	minute := int(v % 60)
	v /= 60
	hour := int(v % 24)
	v /= 24
	day := int(v%31) + 1
	v /= 31
	month := time.Month(v%12) + 1
	v /= 12
	year := int(v) + 2000
	return time.Date(year, month, day, hour, minute, second, 0, loc)
}

// EncodeTime is the inverse of DecodeTime.
func EncodeTime(t time.Time) uint32 {
	d := ((t.Year()%100)*12*31+(int(t.Month())-1)*31+t.Day()-1)*(24*60*60) +
		(t.Hour()*60+t.Minute())*60 + t.Second()
	return uint32(d)
}
