package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdemtracker/internal/replay"
	"github.com/lox/holdemtracker/internal/tracker"
)

// Connection is one WebSocket client of the snapshot server
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	server    *Server
}

func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, sendBuffer),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		server: server,
	}
}

// Start runs the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close is safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues msg without blocking. Slow clients are dropped.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("Send after close", "type", msg.Type, "panic", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Client too slow, dropping connection", "queued", len(c.send))
		_ = c.Close()
		return ErrConnectionClosed
	}
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10 // must stay below pongWait
	maxMessageSize = 8192
	sendBuffer     = 256
)

// ErrConnectionClosed is returned when a client is dropped for falling behind.
var ErrConnectionClosed = websocket.ErrCloseSent

func (c *Connection) extendReadDeadline(string) error {
	return c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// readPump feeds client messages to handleMessage until the socket fails
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.extendReadDeadline("")
	c.conn.SetPongHandler(c.extendReadDeadline)

	for c.ctx.Err() == nil {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		switch {
		case err == nil:
			c.handleMessage(&msg)
		case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure):
			c.logger.Error("WebSocket read failed", "error", err)
			return
		default:
			return
		}
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// writePump drains the send queue and keeps the socket alive with pings
func (c *Connection) writePump() {
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()
	defer func() { _ = c.conn.Close() }()

	for {
		select {
		case <-c.ctx.Done():
			return

		case <-pings.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}

		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("Failed to encode message", "type", msg.Type, "error", err)
				continue
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeEvent:
		var e replay.Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			c.sendError("invalid_message", "Failed to parse event")
			return
		}
		// Success is reported by the update broadcast to every client.
		if err := replay.Apply(c.server.tracker, e); err != nil {
			c.logger.Warn("Event rejected", "event", e, "error", err)
			c.sendError(errorCode(err), err.Error())
		}

	case MessageTypeSnapshotRequest:
		c.sendSnapshot()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+string(msg.Type))
	}
}

// sendSnapshot sends the current game, or null before a game has started
func (c *Connection) sendSnapshot() {
	data, err := c.server.tracker.Snapshot(false)
	switch {
	case errors.Is(err, tracker.ErrNotStarted):
		data = []byte("null")
	case err != nil:
		c.sendError(errorCode(err), err.Error())
		return
	}

	msg, err := NewMessage(MessageTypeSnapshot, json.RawMessage(data))
	if err != nil {
		c.logger.Error("Failed to create snapshot message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}
