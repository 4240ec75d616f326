package sensorhost

import (
	"net"

	"github.com/sensorfs/sensorfs/pathfs"
)

// Client is a thin Unix-socket client for a Server, used by tests and
// by any future host-side adapter that wants to drive sensorfsd over
// the wire instead of linking against it directly.
type Client struct {
	conn net.Conn
}

// Dial connects to a running Server at socketPath.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) roundTrip(req request) (response, error) {
	if err := writeFrame(c.conn, encodeRequest(req)); err != nil {
		return response{}, err
	}
	buf, err := readFrame(c.conn)
	if err != nil {
		return response{}, err
	}
	return decodeResponse(buf)
}

// IsDir asks the server whether path resolves to a directory.
func (c *Client) IsDir(path []string) (bool, error) {
	res, err := c.roundTrip(request{op: opIsDir, path: path})
	if err != nil {
		return false, err
	}
	if res.err != "" {
		return false, remoteError(res.err)
	}
	return res.isDir, nil
}

// Read asks the server to read path.
func (c *Client) Read(path []string) (pathfs.Result, error) {
	res, err := c.roundTrip(request{op: opRead, path: path})
	if err != nil {
		return pathfs.Result{}, err
	}
	if res.err != "" {
		return pathfs.Result{}, remoteError(res.err)
	}
	return pathfs.Result{IsDir: res.isDir, Listing: res.listing, Content: res.content}, nil
}

// Write asks the server to write data at path.
func (c *Client) Write(path []string, data []byte) error {
	res, err := c.roundTrip(request{op: opWrite, path: path, data: data})
	if err != nil {
		return err
	}
	if res.err != "" {
		return remoteError(res.err)
	}
	return nil
}

// remoteError wraps a server-side error string; the concrete sensorerr
// type is lost across the wire, so the caller only sees a generic
// failure message.
type remoteError string

func (e remoteError) Error() string { return string(e) }
