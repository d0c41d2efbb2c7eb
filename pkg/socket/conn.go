package socket

import "context"

// IConn 底层连接抽象，websocket 之外也可以接入
type IConn interface {
	Read() ([]byte, error)
	Write([]byte) error
	Close(code int, text string) error
}

// IStorage 连接与用户的绑定关系（跨节点在线状态）
type IStorage interface {
	Bind(ctx context.Context, channel string, cid int64, uid int64) error
	UnBind(ctx context.Context, channel string, cid int64) error
}
