package database

import (
	"Socio/config"

	"gorm.io/gorm"
)

// OpenMemory 内存 SQLite，单连接保证所有查询落在同一个库上，用于测试和本地调试
func OpenMemory() (*gorm.DB, error) {
	db, err := Open(&config.Database{
		Driver:       config.DriverSQLite,
		Dsn:          "file::memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
