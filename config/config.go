package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App      *App      `json:"app" yaml:"app"`
	Redis    *Redis    `json:"redis" yaml:"redis"`
	Database *Database `json:"database" yaml:"database"`
	Jwt      *Jwt      `json:"jwt" yaml:"jwt"`
	Server   *Server   `json:"server" yaml:"server"`
	Fanout   *Fanout   `json:"fanout" yaml:"fanout"`
}

type Server struct {
	Http      int `json:"http" yaml:"http"`
	Websocket int `json:"websocket" yaml:"websocket"`
}

// Path 根据环境变量定位配置文件
// SOCIO_CONFIG 优先，其次 configs/config.{APP_ENV}.yaml
func Path() string {
	// .env 不存在时忽略
	_ = godotenv.Load()

	if p := os.Getenv("SOCIO_CONFIG"); p != "" {
		return p
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func New(filename string) *Config {
	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	conf, err := Parse(content)
	if err != nil {
		panic(fmt.Sprintf("解析 %s 读取错误: %v", filename, err))
	}

	return conf
}

// Parse 解析 yaml 并补齐默认值
func Parse(content []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(content))), &conf); err != nil {
		return nil, err
	}

	conf.defaults()

	return &conf, nil
}

func (c *Config) defaults() {
	if c.App == nil {
		c.App = &App{Env: "dev"}
	}
	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Server.Websocket == 0 {
		c.Server.Websocket = 8081
	}
	if c.Database == nil {
		c.Database = &Database{}
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMySQL
	}
	if c.Redis == nil {
		c.Redis = &Redis{Address: "127.0.0.1", Port: 6379}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	if c.Jwt.ExpiresTime == 0 {
		c.Jwt.ExpiresTime = 7 * 24 * 3600
	}
	if c.Fanout == nil {
		c.Fanout = &Fanout{}
	}
	if c.Fanout.Buffer == 0 {
		c.Fanout.Buffer = 64
	}
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
