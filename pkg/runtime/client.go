package runtime

import (
	"context"

	"github.com/gorilla/websocket"
)

// Client is a headless hot-update client: it dials the dev server's
// update endpoint and drives a Registry from incoming messages. The
// browser runtime implements the same loop in JavaScript; this one
// exists for tooling and integration tests.
type Client struct {
	conn     *websocket.Conn
	registry *Registry

	// OnError is called for build-error overlay messages. Optional.
	OnError func(msg string)
}

// Dial connects to the dev server's update endpoint (ws://host/_lumen/hmr).
func Dial(ctx context.Context, url string, registry *Registry) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, registry: registry}, nil
}

// Listen reads messages until the connection closes or ctx is done.
// Each message is applied synchronously before the next read; apply
// failures are not returned because the registry has already escalated
// to reload.
func (c *Client) Listen(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		switch msg.Type {
		case MessageError:
			if c.OnError != nil {
				c.OnError(msg.Error)
			}
		default:
			c.registry.HandleMessage(msg)
		}
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
