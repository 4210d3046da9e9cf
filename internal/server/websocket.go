package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zeusync/kinetic/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// client is one websocket connection. send is owned by the room: only the
// room goroutine writes to or closes it.
type client struct {
	id   string
	side string
	conn *websocket.Conn
	send chan []byte
}

// offer queues b without blocking. It reports false when the client is too
// far behind.
func (c *client) offer(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// handleWebSocket joins the caller to the room. The side query parameter
// picks a paddle: "left", "right", "auto", or empty to spectate.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, s.config.SendBuffer),
	}

	reply := make(chan joinResult, 1)
	if err = s.room.submit(r.Context(), join{client: c, side: r.URL.Query().Get("side"), reply: reply}); err != nil {
		s.reject(conn, websocket.CloseGoingAway, err)
		return
	}

	var res joinResult
	select {
	case res = <-reply:
	case <-s.room.done:
		s.reject(conn, websocket.CloseGoingAway, ErrServerClosed)
		return
	}
	if res.err != nil {
		s.reject(conn, websocket.ClosePolicyViolation, res.err)
		return
	}

	go s.writePump(c)
	s.readPump(c)
}

func (s *Server) reject(conn *websocket.Conn, code int, reason error) {
	s.logger.Info("client rejected", log.Error(reason))
	msg := websocket.FormatCloseMessage(code, reason.Error())
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.config.WriteTimeout))
	_ = conn.Close()
}

// readPump forwards input messages to the room until the connection fails,
// then asks the room to drop the client.
func (s *Server) readPump(c *client) {
	defer func() {
		_ = s.room.submit(context.Background(), leave{clientID: c.id})
	}()

	c.conn.SetReadLimit(s.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(s.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.config.PongTimeout))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				s.logger.Debug("read failed", log.String("client", c.id), log.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(s.config.PongTimeout))

		switch msg.Type {
		case MessageInput:
			if err := s.room.submit(context.Background(), input{clientID: c.id, axis: msg.Axis}); err != nil {
				return
			}
		default:
			s.logger.Debug("unknown message",
				log.String("client", c.id),
				log.Error(fmt.Errorf("%q: %w", msg.Type, ErrInvalidMessage)),
			)
		}
	}
}

// writePump drains the send queue and pings the peer. It closes the
// connection once the room closes the queue.
func (s *Server) writePump(c *client) {
	ping := time.NewTicker(s.config.PongTimeout * 9 / 10)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
				s.logger.Debug("write failed", log.String("client", c.id), log.Error(err))
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
