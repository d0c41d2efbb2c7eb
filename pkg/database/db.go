package database

import (
	"fmt"
	"time"

	"Socio/config"
	"Socio/models"
	"Socio/pkg/log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接
func NewDB(conf *config.Config) *gorm.DB {
	db, err := Open(conf.Database)
	if err != nil {
		log.L.Fatal("failed to connect database", zap.String("driver", conf.Database.Driver), zap.Error(err))
	}
	log.L.Info("connect database success", zap.String("driver", conf.Database.Driver))

	if conf.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			log.L.Fatal("auto migrate", zap.Error(err))
		}
	}

	return db
}

func dialector(conf *config.Database) (gorm.Dialector, error) {
	switch conf.Driver {
	case config.DriverMySQL:
		return mysql.Open(conf.Dsn), nil
	case config.DriverPostgres:
		return postgres.Open(conf.Dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(conf.Dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
}

// Open 按驱动打开连接，不做迁移
func Open(conf *config.Database) (*gorm.DB, error) {
	d, err := dialector(conf)
	if err != nil {
		return nil, err
	}

	gc := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// 唯一索引冲突转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	}
	if conf.LogSQL {
		gc.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(d, gc)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate 同步表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
