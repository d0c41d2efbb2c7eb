package socket

import (
	cmap "github.com/orcaman/concurrent-map/v2"
)

// Channel 同一类连接的集合
type Channel struct {
	name    string
	clients cmap.ConcurrentMap[int64, *Client]
}

func NewChannel(name string) *Channel {
	return &Channel{
		name: name,
		clients: cmap.NewWithCustomShardingFunction[int64, *Client](func(key int64) uint32 {
			return uint32(key ^ (key >> 32))
		}),
	}
}

func (c *Channel) Name() string {
	return c.name
}

func (c *Channel) Count() int {
	return c.clients.Count()
}

func (c *Channel) Client(cid int64) (*Client, bool) {
	return c.clients.Get(cid)
}

// CloseAll 停机时断开全部连接
func (c *Channel) CloseAll(code int, text string) {
	for _, client := range c.clients.Items() {
		client.Close(code, text)
	}
}

func (c *Channel) add(client *Client) {
	c.clients.Set(client.cid, client)
}

func (c *Channel) delete(cid int64) {
	c.clients.Remove(cid)
}
