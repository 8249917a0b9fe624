package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Frames arrive whole, so
	// this matches the HTTP upload cap.
	maxMessageSize = maxFrameBytes
)

var ErrConnectionClosed = websocket.ErrCloseSent

// analyzeFunc runs one frame through the analysis pipeline.
type analyzeFunc func(ctx context.Context, frame []byte) *AnalyzeResponse

// frameEnvelope is the text-mode frame submission for clients that
// cannot send binary messages.
type frameEnvelope struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Connection represents a websocket capture client. Each incoming
// frame is analyzed and answered with an AnalyzeResponse.
type Connection struct {
	conn      *websocket.Conn
	send      chan *AnalyzeResponse
	analyze   analyzeFunc
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, analyze analyzeFunc) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		send:    make(chan *AnalyzeResponse, 16),
		analyze: analyze,
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendResponse queues a response for delivery to the client
func (c *Connection) SendResponse(resp *AnalyzeResponse) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- resp:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// readPump handles incoming frames from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(messageType, data)
	}
}

// writePump handles outgoing responses to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case resp, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(resp); err != nil {
				c.logger.Error("Failed to write response", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes one incoming websocket message. Binary
// messages carry raw image bytes; text messages carry a base64 frame
// envelope.
func (c *Connection) handleMessage(messageType int, data []byte) {
	var frame []byte

	switch messageType {
	case websocket.BinaryMessage:
		frame = data

	case websocket.TextMessage:
		var env frameEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			_ = c.SendResponse(badRequestResponse("invalid frame envelope"))
			return
		}
		if env.Type != "frame" {
			_ = c.SendResponse(badRequestResponse("unknown message type: " + env.Type))
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(env.Data)
		if err != nil {
			_ = c.SendResponse(badRequestResponse("frame data is not valid base64"))
			return
		}
		frame = decoded

	default:
		return
	}

	if len(frame) == 0 {
		_ = c.SendResponse(badRequestResponse("empty frame"))
		return
	}

	c.logger.Debug("Analyzing frame", "bytes", len(frame))
	_ = c.SendResponse(c.analyze(c.ctx, frame)) // Ignore send errors, client may be gone
}
