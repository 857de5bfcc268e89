// Package eventstream follows custody events on a running node through the
// CometBFT websocket subscription API.
package eventstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the node
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the node
	pongWait = 60 * time.Second

	// Send pings with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum event message size accepted from the node
	maxMessageSize = 1 << 20

	handshakeTimeout = 10 * time.Second
)

// Event is one custody event emitted by a committed transaction
type Event struct {
	Type       string            `json:"type"`
	Height     string            `json:"height,omitempty"`
	TxHash     string            `json:"tx_hash,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

// TxQuery returns the subscription query for transactions emitting
// eventType with attribute set
func TxQuery(eventType, attribute string) string {
	return fmt.Sprintf("tm.event='Tx' AND %s.%s EXISTS", eventType, attribute)
}

// Endpoint converts a node RPC address such as tcp://localhost:26657 into
// its websocket endpoint
func Endpoint(node string) (string, error) {
	u, err := url.Parse(node)
	if err != nil {
		return "", fmt.Errorf("invalid node address %q: %w", node, err)
	}
	switch u.Scheme {
	case "tcp", "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported node scheme %q", u.Scheme)
	}
	u.Path = "/websocket"
	return u.String(), nil
}

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int               `json:"id"`
	Method  string            `json:"method"`
	Params  map[string]string `json:"params"`
}

type rpcResponse struct {
	ID     int `json:"id"`
	Result *struct {
		Query  string              `json:"query"`
		Events map[string][]string `json:"events"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	} `json:"error"`
}

// Client holds one websocket connection and its subscriptions
type Client struct {
	conn   *websocket.Conn
	logger log.Logger

	writeMu sync.Mutex
	nextID  int
	subs    map[int]string // request id -> event type

	closeOnce sync.Once
}

// Dial connects to a node websocket endpoint
func Dial(ctx context.Context, endpoint string, logger log.Logger) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}
	return &Client{
		conn:   conn,
		logger: logger.With("module", "eventstream"),
		subs:   make(map[int]string),
	}, nil
}

// Subscribe asks the node for every transaction emitting eventType with
// attribute set. Must be called before Run.
func (c *Client) Subscribe(eventType, attribute string) error {
	c.nextID++
	id := c.nextID
	c.subs[id] = eventType

	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  "subscribe",
		Params:  map[string]string{"query": TxQuery(eventType, attribute)},
	}
	bz, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return c.write(websocket.TextMessage, bz)
}

// Run reads events until ctx is cancelled, the node closes the connection
// or handle returns an error
func (c *Client) Run(ctx context.Context, handle func(Event) error) error {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go c.keepAlive(ctx, done)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var resp rpcResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			c.logger.Error("Failed to decode node message", "error", err)
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("subscription %d rejected: %s %s", resp.ID, resp.Error.Message, resp.Error.Data)
		}

		for _, ev := range c.decode(&resp) {
			if err := handle(ev); err != nil {
				return err
			}
		}
	}
}

// Close ends the connection. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = c.conn.Close()
	})
	return err
}

func (c *Client) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *Client) keepAlive(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			// unblocks the pending read in Run
			_ = c.Close()
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("Ping failed", "error", err)
				return
			}
		}
	}
}

// decode splits a subscription result into one Event per emitted event of
// the subscribed type. The node flattens events into "type.key" -> values,
// with the i-th value of each key belonging to the i-th event.
func (c *Client) decode(resp *rpcResponse) []Event {
	if resp.Result == nil || len(resp.Result.Events) == 0 {
		return nil
	}
	eventType, ok := c.subs[resp.ID]
	if !ok {
		return nil
	}

	first := func(key string) string {
		if values := resp.Result.Events[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	height := first("tx.height")
	hash := first("tx.hash")

	prefix := eventType + "."
	var events []Event
	for key, values := range resp.Result.Events {
		attr, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		for i, value := range values {
			for len(events) <= i {
				events = append(events, Event{
					Type:       eventType,
					Height:     height,
					TxHash:     hash,
					Attributes: make(map[string]string),
				})
			}
			events[i].Attributes[attr] = value
		}
	}
	return events
}
