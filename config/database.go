package config

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Database 数据库配置
// driver: mysql | postgres | sqlite
type Database struct {
	Driver       string `json:"driver" yaml:"driver"`
	Dsn          string `json:"dsn" yaml:"dsn"`
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns" yaml:"max_idle_conns"`
	// 启动时自动建表
	AutoMigrate bool `json:"auto_migrate" yaml:"auto_migrate"`
	LogSQL      bool `json:"log_sql" yaml:"log_sql"`
}
