package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	WriteTimeout = 10 * time.Second
	ReadTimeout  = 5 * time.Minute

	// MaxMessageBytes bounds a single client message.
	MaxMessageBytes = 4096
)

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return conn.WriteJSON(v)
}

// ReadMessage reads one text frame, extending the read deadline first.
func ReadMessage(conn *websocket.Conn) ([]byte, error) {
	_ = conn.SetReadDeadline(time.Now().Add(ReadTimeout))
	_, data, err := conn.ReadMessage()
	return data, err
}

// IsClosed reports whether err marks a normal or going-away close.
func IsClosed(err error) bool {
	return !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure)
}
