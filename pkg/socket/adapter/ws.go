package adapter

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WsAdapter gorilla websocket 适配
// 读写各自只允许一个 goroutine
type WsAdapter struct {
	conn *websocket.Conn
}

func NewWsAdapter(w http.ResponseWriter, r *http.Request) (*WsAdapter, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	return NewWsAdapterFromConn(conn), nil
}

func NewWsAdapterFromConn(conn *websocket.Conn) *WsAdapter {
	conn.SetReadLimit(maxMessageSize)
	return &WsAdapter{conn: conn}
}

func (w *WsAdapter) Read() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	return data, err
}

func (w *WsAdapter) Write(data []byte) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// Close 先发送关闭帧再断开，WriteControl 可与 Write 并发
func (w *WsAdapter) Close(code int, text string) error {
	_ = w.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(time.Second),
	)
	return w.conn.Close()
}
