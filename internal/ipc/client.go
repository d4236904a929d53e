package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Submit enqueues jobs on the daemon.
func (c *Client) Submit(req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.client.Call("Scribe.Submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Scribe.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cancel clears the daemon queue.
func (c *Client) Cancel() (*CancelResponse, error) {
	var resp CancelResponse
	if err := c.client.Call("Scribe.Cancel", CancelRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Scribe.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TranscriptList returns archived transcript summaries.
func (c *Client) TranscriptList() (*TranscriptListResponse, error) {
	var resp TranscriptListResponse
	if err := c.client.Call("Scribe.TranscriptList", TranscriptListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TranscriptGet returns one transcript with its segments.
func (c *Client) TranscriptGet(id int64) (*TranscriptGetResponse, error) {
	var resp TranscriptGetResponse
	if err := c.client.Call("Scribe.TranscriptGet", TranscriptGetRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
