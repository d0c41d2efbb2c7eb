package socket

type IEvent interface {
	Open(client IClient)
	Message(client IClient, data []byte)
	Close(client IClient, code int, text string)
}

type (
	OpenEvent    func(client IClient)
	MessageEvent func(client IClient, data []byte)
	CloseEvent   func(client IClient, code int, text string)
)

type Event struct {
	open    OpenEvent
	message MessageEvent
	close   CloseEvent
}

type EventOption func(event *Event)

func NewEvent(opts ...EventOption) IEvent {
	o := &Event{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (e *Event) Open(client IClient) {
	if e.open != nil {
		e.open(client)
	}
}

func (e *Event) Message(client IClient, data []byte) {
	if e.message != nil {
		e.message(client, data)
	}
}

func (e *Event) Close(client IClient, code int, text string) {
	if e.close != nil {
		e.close(client, code, text)
	}
}

// WithOpenEvent 连接成功回调事件
func WithOpenEvent(e OpenEvent) EventOption {
	return func(event *Event) {
		event.open = e
	}
}

// WithMessageEvent 消息回调事件
func WithMessageEvent(e MessageEvent) EventOption {
	return func(event *Event) {
		event.message = e
	}
}

// WithCloseEvent 连接关闭回调事件
func WithCloseEvent(e CloseEvent) EventOption {
	return func(event *Event) {
		event.close = e
	}
}
