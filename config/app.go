package config

type App struct {
	Name  string `json:"name" yaml:"name"`
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
	// 公开访问地址，用于拼接头像、帖子媒体的绝对路径
	PublicURL string `json:"public_url" yaml:"public_url"`
}
