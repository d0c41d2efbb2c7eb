package config

// Fanout 实时推送配置
type Fanout struct {
	// redis 频道前缀，多环境共用一个 redis 时区分
	Prefix string `json:"prefix" yaml:"prefix"`
	// 单个连接的发送缓冲，写满视为慢消费者直接断开
	Buffer int `json:"buffer" yaml:"buffer"`
	// memory: 单进程调试, redis: 默认
	Broker string `json:"broker" yaml:"broker"`
}
