package socket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/snowflake"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 关闭码
const (
	CloseNormal        = 1000
	ClosePolicy        = 1008
	CloseTryAgainLater = 1013
	CloseUnauthorized  = 4001
	CloseForbidden     = 4003
	CloseHeartbeat     = 4008
)

var (
	ErrClientClosed = errors.New("client closed")
	ErrSlowConsumer = errors.New("slow consumer")
)

type IClient interface {
	Cid() int64
	Uid() int64
	Group() string
	Tag() string
	Write(data []byte) error
	WriteEvent(ev *pubsub.Event) error
	Close(code int, text string)
	Closed() bool
}

type ClientOption struct {
	Uid     int64
	Group   string // 加入的广播组
	Channel *Channel
	Room    *RoomStorage
	Storage IStorage
	Buffer  int
}

type Client struct {
	cid      int64
	uid      int64
	group    string
	tag      string
	lastTime int64 // 最后一次收到数据的时间，unix 秒
	conn     IConn
	channel  *Channel
	room     *RoomStorage
	storage  IStorage
	event    IEvent

	out    chan []byte
	done   chan struct{}
	closed atomic.Bool
	once   sync.Once
	code   int
	text   string
}

// NewClient 初始化客户端并启动读写协程，连接生命周期由协程托管
func NewClient(conn IConn, option *ClientOption, event IEvent) error {
	if option.Buffer <= 0 {
		option.Buffer = 10
	}

	c := &Client{
		cid:      snowflake.GenID(),
		uid:      option.Uid,
		group:    option.Group,
		tag:      uuid.NewString(),
		lastTime: time.Now().Unix(),
		conn:     conn,
		channel:  option.Channel,
		room:     option.Room,
		storage:  option.Storage,
		event:    event,
		out:      make(chan []byte, option.Buffer),
		done:     make(chan struct{}),
	}

	c.init()

	return nil
}

func (c *Client) Cid() int64    { return c.cid }
func (c *Client) Uid() int64    { return c.uid }
func (c *Client) Group() string { return c.group }
func (c *Client) Tag() string   { return c.tag }
func (c *Client) Closed() bool  { return c.closed.Load() }

// Write 投递到发送队列，队列写满视为慢消费者并断开
func (c *Client) Write(data []byte) error {
	if c.Closed() {
		return ErrClientClosed
	}

	select {
	case <-c.done:
		return ErrClientClosed
	case c.out <- data:
		return nil
	default:
		log.L.Warn("slow consumer", zap.Int64("cid", c.cid), zap.Int64("uid", c.uid), zap.String("group", c.group))
		c.Close(CloseTryAgainLater, "slow consumer")
		return ErrSlowConsumer
	}
}

func (c *Client) WriteEvent(ev *pubsub.Event) error {
	return c.Write(ev.Encode())
}

func (c *Client) Close(code int, text string) {
	c.once.Do(func() {
		c.code, c.text = code, text
		c.closed.Store(true)
		close(c.done)

		if err := c.conn.Close(code, text); err != nil {
			log.L.Debug("client close", zap.Int64("cid", c.cid), zap.Error(err))
		}
	})
}

func (c *Client) touch() {
	atomic.StoreInt64(&c.lastTime, time.Now().Unix())
}

func (c *Client) lastActive() int64 {
	return atomic.LoadInt64(&c.lastTime)
}

func (c *Client) init() {
	if c.channel != nil {
		c.channel.add(c)
	}
	if c.room != nil {
		c.room.Join(c.group, c)
	}
	if c.storage != nil && c.channel != nil {
		if err := c.storage.Bind(context.Background(), c.channel.Name(), c.cid, c.uid); err != nil {
			log.L.Warn("client bind", zap.Int64("cid", c.cid), zap.Error(err))
		}
	}

	health.insert(c)

	go c.loopWrite()

	c.event.Open(c)

	go c.loopRead()
}

func (c *Client) loopRead() {
	for {
		data, err := c.conn.Read()
		if err != nil {
			break
		}

		c.touch()
		c.event.Message(c, data)
	}

	// 远端断开时 Close 尚未调用
	c.Close(CloseNormal, "")
	c.release()
}

func (c *Client) loopWrite() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.out:
			if err := c.conn.Write(data); err != nil {
				c.Close(CloseNormal, "write error")
				return
			}
		}
	}
}

func (c *Client) release() {
	health.delete(c)

	if c.room != nil {
		c.room.Leave(c.group, c.cid)
	}
	if c.channel != nil {
		c.channel.delete(c.cid)
	}
	if c.storage != nil && c.channel != nil {
		if err := c.storage.UnBind(context.Background(), c.channel.Name(), c.cid); err != nil {
			log.L.Debug("client unbind", zap.Int64("cid", c.cid), zap.Error(err))
		}
	}

	c.event.Close(c, c.code, c.text)
}
