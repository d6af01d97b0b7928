package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/edges/internal/runtimepath"
)

// ErrDaemonNotRunning is returned when nothing is listening on the socket.
var ErrDaemonNotRunning = errors.New("edges daemon is not running")

// DaemonError is an error reported by the daemon itself.
type DaemonError struct {
	Command CommandType
	Msg     string
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("daemon error: %s: %s", e.Command, e.Msg)
}

// Client sends one request per connection to the daemon.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient returns a client for the default socket.
func NewClient() *Client {
	// An unresolvable path surfaces as ErrDaemonNotRunning on first use.
	socketPath, _ := runtimepath.SocketPath()
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) roundTrip(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonNotRunning, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", req.Command, err)
	}
	if _, err := conn.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("send %s request: %w", req.Command, err)
	}

	reply, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.Command, err)
	}
	var resp Response
	if err := json.Unmarshal(reply, &resp); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", req.Command, err)
	}
	if resp.Status == "ERROR" {
		return nil, &DaemonError{Command: req.Command, Msg: resp.Error}
	}
	return &resp, nil
}

// call performs req and decodes the response data into a T.
func call[T any](c *Client, req *Request) (*T, error) {
	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return nil, fmt.Errorf("parse %s data: %w", req.Command, err)
	}
	return out, nil
}

// Reload asks the daemon to re-read its configuration file.
func (c *Client) Reload() error {
	_, err := c.roundTrip(&Request{Command: CommandReload})
	return err
}

func (c *Client) GetStatus() (*StatusData, error) {
	return call[StatusData](c, &Request{Command: CommandGetStatus})
}

func (c *Client) GetMonitors() (*MonitorsData, error) {
	return call[MonitorsData](c, &Request{Command: CommandGetMonitors})
}

// Trigger runs the command bound to the named edge as if it had been hit.
func (c *Client) Trigger(edgeName string) error {
	payload, err := json.Marshal(TriggerPayload{Edge: edgeName})
	if err != nil {
		return fmt.Errorf("marshal trigger payload: %w", err)
	}
	_, err = c.roundTrip(&Request{Command: CommandTrigger, Payload: payload})
	return err
}
