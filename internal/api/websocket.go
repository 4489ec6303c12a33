package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSConnection maintains the WebSocket connection with the client
type WSConnection struct {
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	server *Server
}

// AnalysisStreamRequest starts one streamed analysis over the socket. The
// client extracts the file text itself (the REST endpoint does the same
// extraction server-side) and sends it with the prompt.
type AnalysisStreamRequest struct {
	Contents string `json:"contents"`
	Prompt   string `json:"prompt"`
}

// handleAnalysisWS upgrades the request and streams analysis replies
// chunk-by-chunk.
func (s *Server) handleAnalysisWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithField("err", err).Error("failed to upgrade connection")
		return
	}

	wsConn := &WSConnection{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
	}

	go wsConn.writePump()
	go wsConn.readPump()
}

// readPump pumps messages from the WebSocket connection to the handler
func (c *WSConnection) readPump() {
	defer func() {
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512 * 1024) // matches the analysis upload cap with room to spare
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.WithField("err", err).Error("websocket error")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the server to the WebSocket connection
func (c *WSConnection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes one streamed analysis request
func (c *WSConnection) handleMessage(message []byte) {
	var req AnalysisStreamRequest
	if err := json.Unmarshal(message, &req); err != nil {
		c.sendError("invalid request: " + err.Error())
		return
	}

	go func() {
		analyzer, err := c.server.getAnalyzer()
		if err != nil {
			c.sendError(err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := analyzer.Stream(ctx, req.Contents, req.Prompt, func(chunk string) error {
			return c.sendJSON(map[string]interface{}{"chunk": chunk})
		})
		if err != nil {
			c.sendError(err.Error())
			return
		}

		c.sendJSON(map[string]interface{}{
			"done":   true,
			"hasCsv": result.HasCSV,
			"table":  result.Table,
		})
	}()
}

// sendJSON marshals and queues one message for the client
func (c *WSConnection) sendJSON(payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case c.send <- data:
	default:
		c.server.log.Warn("websocket buffer full, dropping message")
	}
	return nil
}

// sendError sends an error message to the client
func (c *WSConnection) sendError(message string) {
	c.sendJSON(map[string]string{"error": message})
}
