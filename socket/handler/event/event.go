package event

import (
	"context"
	"errors"
	"time"

	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/socket"
	"Socio/service"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// 单帧处理超时
	frameTimeout = 5 * time.Second
	// ack 单次最多处理的 id 数
	maxAckIds = 500
)

// frameType 读取入站帧的 type，非法 json 返回 false
func frameType(data []byte) (string, bool) {
	if !gjson.ValidBytes(data) {
		return "", false
	}
	return gjson.GetBytes(data, "type").String(), true
}

// ackIds unique_identifier 与 ids 合并去重
func ackIds(data []byte) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)

	add := func(v gjson.Result) bool {
		if id := v.Int(); id > 0 {
			if _, ok := seen[id]; !ok && len(ids) < maxAckIds {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		return true
	}

	if v := gjson.GetBytes(data, "unique_identifier"); v.Exists() {
		add(v)
	}
	gjson.GetBytes(data, "ids").ForEach(func(_, v gjson.Result) bool {
		return add(v)
	})

	return ids
}

func pong(client socket.IClient) {
	_ = client.WriteEvent(&pubsub.Event{Type: pubsub.EventPong})
}

func writeError(client socket.IClient, message string) {
	_ = client.WriteEvent(&pubsub.Event{Type: pubsub.EventError, Message: message})
}

// writeErr 业务错误原样下发，其余只记录日志
func writeErr(client socket.IClient, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		writeError(client, se.Msg)
		return
	}

	log.L.Error("websocket frame failed",
		zap.Int64("cid", client.Cid()),
		zap.Int64("uid", client.Uid()),
		zap.Error(err),
	)
	writeError(client, "internal error")
}

func frameContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), frameTimeout)
}
