package zkteco

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	t           *testing.T
	conn        net.Conn
	attlog      []byte
	requireAuth bool
	commands    []uint16
}

func (d *fakeDevice) send(cmd uint16, reply uint16, payload []byte) {
	_, err := d.conn.Write(encodePacket(cmd, 0x22, reply, payload))
	require.NoError(d.t, err)
}

func (d *fakeDevice) serve() {
	defer d.conn.Close()
	for {
		top := make([]byte, topSize)
		if _, err := io.ReadFull(d.conn, top); err != nil {
			return
		}
		n, err := decodeTop(top)
		require.NoError(d.t, err)
		body := make([]byte, n)
		_, err = io.ReadFull(d.conn, body)
		require.NoError(d.t, err)
		h, payload, err := decodeBody(body)
		require.NoError(d.t, err)
		d.commands = append(d.commands, h.Command)

		switch h.Command {
		case CmdConnect:
			if d.requireAuth {
				d.send(CmdAckUnauth, h.ReplyID, nil)
			} else {
				d.send(CmdAckOK, h.ReplyID, nil)
			}
		case CmdAuth:
			assert.Equal(d.t, MakeCommKey(1234, 0x22, 50), payload)
			d.send(CmdAckOK, h.ReplyID, nil)
		case CmdPrepareBuffer:
			ack := make([]byte, 9)
			binary.LittleEndian.PutUint32(ack[1:], uint32(len(d.attlog)))
			d.send(CmdAckOK, h.ReplyID, ack)
		case CmdReadBuffer:
			start := binary.LittleEndian.Uint32(payload[0:])
			size := binary.LittleEndian.Uint32(payload[4:])
			chunk := d.attlog[start : start+size]
			prep := make([]byte, 4)
			binary.LittleEndian.PutUint32(prep, size)
			d.send(CmdPrepareData, h.ReplyID, prep)
			half := len(chunk) / 2
			d.send(CmdData, h.ReplyID, chunk[:half])
			d.send(CmdData, h.ReplyID, chunk[half:])
			d.send(CmdAckOK, h.ReplyID, nil)
		case CmdFreeData:
			d.send(CmdAckOK, h.ReplyID, nil)
		case CmdExit:
			d.send(CmdAckOK, h.ReplyID, nil)
			return
		default:
			d.send(CmdAckError, h.ReplyID, nil)
		}
	}
}

func attlogFixture(records ...Attendance) []byte {
	var payload []byte
	for _, r := range records {
		payload = append(payload, EncodeAttendance40(r)...)
	}
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(len(payload)))
	return append(data, payload...)
}

func newPipedClient(t *testing.T, device *fakeDevice, password uint32) (*Client, chan struct{}) {
	t.Helper()
	clientEnd, deviceEnd := net.Pipe()
	device.conn = deviceEnd
	device.t = t

	done := make(chan struct{})
	go func() {
		defer close(done)
		device.serve()
	}()

	c := NewClient(Options{Address: "device:4370", Password: password, Timeout: 2 * time.Second, Location: time.UTC})
	c.dial = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return clientEnd, nil
	}
	return c, done
}

func TestClient_ReadsAttendanceLog(t *testing.T) {
	punch := Attendance{UID: 3, UserID: "1003", Timestamp: time.Date(2024, 5, 6, 9, 15, 0, 0, time.UTC), VerifyType: 1}
	device := &fakeDevice{attlog: attlogFixture(punch)}
	c, done := newPipedClient(t, device, 0)

	ctx := context.Background()
	require.NoError(t, c.Connect(ctx))

	records, err := c.GetAttendance(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, punch, records[0])

	require.NoError(t, c.Disconnect())
	<-done

	assert.Equal(t, []uint16{CmdConnect, CmdPrepareBuffer, CmdReadBuffer, CmdFreeData, CmdExit}, device.commands)
}

func TestClient_AuthenticatesWithCommKey(t *testing.T) {
	device := &fakeDevice{attlog: attlogFixture(), requireAuth: true}
	c, done := newPipedClient(t, device, 1234)

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Disconnect())
	<-done

	assert.Equal(t, []uint16{CmdConnect, CmdAuth, CmdExit}, device.commands)
}

func TestClient_GetAttendanceWithoutConnect(t *testing.T) {
	c := NewClient(Options{Address: "127.0.0.1:1"})
	_, err := c.GetAttendance(context.Background())
	assert.Error(t, err)
}
