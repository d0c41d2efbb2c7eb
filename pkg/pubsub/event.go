package pubsub

import "encoding/json"

// 推送事件类型，即客户端收到的 type 字段
const (
	EventMessage             = "message"
	EventRemoveMessage       = "remove_message"
	EventNotification        = "notification"
	EventRemoveNotification  = "remove_notification"
	EventFollowRequestAction = "notification_follow_request_action"
	EventTyping              = "typing"
	EventReadReceipt         = "read_receipt"
	EventAuthRequired        = "authentication_required"
	EventPing                = "ping"
	EventPong                = "pong"
	EventAck                 = "ack"
	EventError               = "error"
)

// Event 组内广播的事件，结构扁平，直接下发给 WebSocket 客户端
type Event struct {
	ID                      int64   `json:"id,omitempty,string"`
	Type                    string  `json:"type"`
	UniqueIdentifier        string  `json:"unique_identifier,omitempty"`
	Content                 string  `json:"content,omitempty"`
	Sender                  int64   `json:"sender,omitempty"`
	Recipient               int64   `json:"recipient,omitempty"`
	NotificationType        string  `json:"notification_type,omitempty"`
	Message                 string  `json:"message,omitempty"`
	SenderProfilePictureURL string  `json:"sender_profile_picture_url,omitempty"`
	PostMediaURL            string  `json:"post_media_url,omitempty"`
	Action                  string  `json:"action,omitempty"`
	Ids                     []int64 `json:"ids,omitempty"`
	Timestamp               int64   `json:"timestamp,omitempty"`
}

func (e *Event) Encode() []byte {
	b, _ := json.Marshal(e)
	return b
}

func Decode(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delivery 订阅端收到的一条投递
type Delivery struct {
	Group string
	Event *Event
}
