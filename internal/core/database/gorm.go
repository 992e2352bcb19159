package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

func NewGorm(o Opts) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch o.Driver {
	case "postgres":
		dial = postgres.Open(withCredentials(o.DSN, o.Username, o.Password))
	case "mysql":
		dial = mysql.Open(o.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", o.Driver)
	}

	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(lvl),
		TranslateError: true, // 唯一键冲突映射为 gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)

	return db.Session(&gorm.Session{
		PrepareStmt:            true,
		SkipDefaultTransaction: true, // 事务由仓储层按需开
	}), nil
}

// withCredentials 将独立配置的账号密码注入 key=value 形式的 postgres DSN
func withCredentials(dsn, user, pass string) string {
	if strings.Contains(dsn, "://") {
		return dsn // URL 形式不改写
	}
	if user != "" && !strings.Contains(dsn, "user=") {
		dsn += " user=" + user
	}
	if pass != "" && !strings.Contains(dsn, "password=") {
		dsn += " password=" + pass
	}
	return dsn
}
