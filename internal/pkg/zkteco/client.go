package zkteco

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"
)

type Options struct {
	Address    string
	Password   uint32
	Timeout    time.Duration
	Location   *time.Location
	RecordSize int
}

// Client is a single connection to one terminal. It is not safe for
// concurrent use by more than one poll at a time; a mutex serialises calls.
type Client struct {
	opts Options

	mu      sync.Mutex
	conn    net.Conn
	session uint16
	reply   uint16
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	d := &net.Dialer{Timeout: opts.Timeout}
	return &Client{opts: opts, dial: d.DialContext}
}

// Address joins host and port the way the device registry stores them.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.dial(ctx, "tcp", c.opts.Address)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.opts.Address, err)
	}
	c.conn = conn
	c.session = 0
	c.reply = 0

	h, _, err := c.request(CmdConnect, nil)
	if err != nil {
		c.closeLocked()
		return err
	}
	c.session = h.SessionID

	switch h.Command {
	case CmdAckOK:
		return nil
	case CmdAckUnauth:
		key := MakeCommKey(c.opts.Password, c.session, 50)
		h, _, err = c.request(CmdAuth, key)
		if err != nil {
			c.closeLocked()
			return err
		}
		if h.Command != CmdAckOK {
			c.closeLocked()
			return ErrUnauthorized
		}
		return nil
	default:
		c.closeLocked()
		return fmt.Errorf("%w: connect answered %d", ErrUnexpected, h.Command)
	}
}

// GetAttendance downloads the full attendance log.
func (c *Client) GetAttendance(ctx context.Context) ([]Attendance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("zkteco: not connected")
	}

	data, err := c.readWithBuffer(CmdAttLogRRQ)
	if err != nil {
		return nil, err
	}
	return DecodeAttendance(data, c.opts.RecordSize, c.opts.Location)
}

func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	_, _, err := c.request(CmdExit, nil)
	if cerr := c.closeLocked(); err == nil {
		err = cerr
	}
	return err
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) readWithBuffer(cmd uint16) ([]byte, error) {
	req := make([]byte, 11)
	req[0] = 1
	binary.LittleEndian.PutUint16(req[1:], cmd)

	h, payload, err := c.request(CmdPrepareBuffer, req)
	if err != nil {
		return nil, err
	}

	switch h.Command {
	case CmdData:
		return payload, nil
	case CmdAckOK:
	default:
		return nil, fmt.Errorf("%w: prepare buffer answered %d", ErrUnexpected, h.Command)
	}
	if len(payload) < 5 {
		return nil, ErrBadFrame
	}
	size := int(binary.LittleEndian.Uint32(payload[1:5]))

	data := make([]byte, 0, size)
	for start := 0; start < size; start += maxChunk {
		n := size - start
		if n > maxChunk {
			n = maxChunk
		}
		chunk, err := c.readChunk(start, n)
		if err != nil {
			return nil, err
		}
		data = append(data, chunk...)
	}

	if _, _, err := c.request(CmdFreeData, nil); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) readChunk(start, size int) ([]byte, error) {
	req := make([]byte, 8)
	binary.LittleEndian.PutUint32(req[0:], uint32(start))
	binary.LittleEndian.PutUint32(req[4:], uint32(size))

	h, payload, err := c.request(CmdReadBuffer, req)
	if err != nil {
		return nil, err
	}

	switch h.Command {
	case CmdData:
		return payload, nil
	case CmdPrepareData:
	default:
		return nil, fmt.Errorf("%w: read buffer answered %d", ErrUnexpected, h.Command)
	}

	if len(payload) < 4 {
		return nil, ErrBadFrame
	}
	want := int(binary.LittleEndian.Uint32(payload[:4]))
	out := make([]byte, 0, want)
	for len(out) < want {
		h, payload, err = c.receive()
		if err != nil {
			return nil, err
		}
		if h.Command != CmdData {
			return nil, fmt.Errorf("%w: expected data, got %d", ErrUnexpected, h.Command)
		}
		out = append(out, payload...)
	}

	h, _, err = c.receive()
	if err != nil {
		return nil, err
	}
	if h.Command != CmdAckOK {
		return nil, fmt.Errorf("%w: expected ack after data, got %d", ErrUnexpected, h.Command)
	}
	return out[:want], nil
}

func (c *Client) request(cmd uint16, payload []byte) (header, []byte, error) {
	c.reply++
	if c.reply >= ushrtMax {
		c.reply -= ushrtMax
	}

	if err := c.conn.SetDeadline(time.Now().Add(c.opts.Timeout)); err != nil {
		return header{}, nil, err
	}
	if _, err := c.conn.Write(encodePacket(cmd, c.session, c.reply, payload)); err != nil {
		return header{}, nil, fmt.Errorf("failed to send command %d: %w", cmd, err)
	}
	return c.receive()
}

func (c *Client) receive() (header, []byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.opts.Timeout)); err != nil {
		return header{}, nil, err
	}

	top := make([]byte, topSize)
	if _, err := io.ReadFull(c.conn, top); err != nil {
		return header{}, nil, fmt.Errorf("failed to read reply: %w", err)
	}
	n, err := decodeTop(top)
	if err != nil {
		return header{}, nil, err
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return header{}, nil, fmt.Errorf("failed to read reply body: %w", err)
	}
	return decodeBody(body)
}
