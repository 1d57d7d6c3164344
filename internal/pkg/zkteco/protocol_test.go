package zkteco

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePacket_ChecksumIsStable(t *testing.T) {
	frame := encodePacket(CmdConnect, 0, 1, nil)
	require.Len(t, frame, topSize+headerSize)

	n, err := decodeTop(frame[:topSize])
	require.NoError(t, err)
	assert.Equal(t, headerSize, n)

	h, payload, err := decodeBody(frame[topSize:])
	require.NoError(t, err)
	assert.Equal(t, CmdConnect, h.Command)
	assert.Equal(t, uint16(1), h.ReplyID)
	assert.Empty(t, payload)

	body := append([]byte(nil), frame[topSize:]...)
	binary.LittleEndian.PutUint16(body[2:], 0)
	assert.Equal(t, h.Checksum, checksum(body))
}

func TestChecksum_OddLength(t *testing.T) {
	// 0x0201 + 0x03 = 0x0204, inverted and folded into 16 bits.
	got := checksum([]byte{0x01, 0x02, 0x03})
	assert.Equal(t, uint16(65018), got)
}

func TestDecodeTop_RejectsBadMagic(t *testing.T) {
	_, err := decodeTop([]byte{0, 0, 0, 0, 8, 0, 0, 0})
	assert.ErrorIs(t, err, ErrBadFrame)
}

func TestMakeCommKey(t *testing.T) {
	assert.Equal(t, []byte{0x61, 0x7D, 0x32, 0x79}, MakeCommKey(0, 0, 50))
	assert.Equal(t, []byte{0x61, 0xFD, 0x32, 0x79}, MakeCommKey(1, 0, 50))
}

func TestTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, time.March, 15, 9, 42, 7, 0, loc)

	assert.True(t, ts.Equal(DecodeTime(EncodeTime(ts), loc)))
	assert.Equal(t, uint32(0), EncodeTime(time.Date(2000, time.January, 1, 0, 0, 0, 0, loc)))
}

func TestDecodeAttendance_40ByteRecords(t *testing.T) {
	loc := time.UTC
	first := Attendance{UID: 1, UserID: "1001", Timestamp: time.Date(2024, 3, 15, 9, 5, 0, 0, loc), VerifyType: 1, PunchState: 0}
	second := Attendance{UID: 2, UserID: "1002", Timestamp: time.Date(2024, 3, 15, 18, 30, 0, 0, loc), VerifyType: 15, PunchState: 1}

	payload := append(EncodeAttendance40(first), EncodeAttendance40(second)...)
	data := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(data, uint32(len(payload)))
	data = append(data, payload...)

	records, err := DecodeAttendance(data, 0, loc)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first, records[0])
	assert.Equal(t, second, records[1])
}

func TestDecodeAttendance_16ByteRecords(t *testing.T) {
	ts := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	rec := make([]byte, 16)
	binary.LittleEndian.PutUint32(rec[0:], 77)
	binary.LittleEndian.PutUint32(rec[4:], EncodeTime(ts))
	rec[8] = 1
	rec[9] = 1

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, 16)
	data = append(data, rec...)

	records, err := DecodeAttendance(data, 0, time.UTC)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "77", records[0].UserID)
	assert.True(t, ts.Equal(records[0].Timestamp))
	assert.Equal(t, 1, records[0].PunchState)
}

func TestDecodeAttendance_Empty(t *testing.T) {
	records, err := DecodeAttendance([]byte{0, 0, 0, 0}, 0, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, records)
}
