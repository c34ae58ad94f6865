package model

import (
	"barefoot/internal/config"
	"barefoot/internal/entity"
	"barefoot/internal/model/memory"
	"barefoot/internal/model/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
	DBTypeMemory   = "memory"
)

// tables 是需要自动迁移的全部模型
var tables = []any{
	&entity.DbUser{},
	&entity.DbTripRequest{},
	&entity.DbFacility{},
	&entity.DbRoom{},
	&entity.DbFacilityReaction{},
	&entity.DbFacilityRating{},
	&entity.DbFacilityFeedback{},
	&entity.DbBooking{},
}

// InitRepository 根据 DBType 创建仓库；SQL 后端会先完成表结构迁移
func InitRepository(cfg *config.Config) (Repository, error) {
	dbType := strings.ToLower(strings.TrimSpace(cfg.DBType))
	if dbType == "" {
		return nil, fmt.Errorf("database type is not configured")
	}
	if dbType == DBTypeMemory {
		logrus.Warn("using in-memory repository, data is lost on restart")
		return memory.NewRepository(), nil
	}

	dialector, err := dialectorFor(dbType, cfg)
	if err != nil {
		return nil, err
	}
	db, err := openGormDB(dialector)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dbType, err)
	}
	if err := db.AutoMigrate(tables...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	logrus.WithField("db_type", dbType).Info("repository ready")
	return sql.NewGormRepository(db), nil
}

func dialectorFor(dbType string, cfg *config.Config) (gorm.Dialector, error) {
	switch dbType {
	case DBTypeMySQL:
		return mysql.Open(mysqlDSN(cfg)), nil
	case DBTypePostgres:
		return postgres.Open(postgresDSN(cfg)), nil
	case DBTypeSQLite:
		dsn, err := sqliteDSN(cfg)
		if err != nil {
			return nil, err
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

func mysqlDSN(cfg *config.Config) string {
	if cfg.DSNURL != "" {
		return cfg.DSNURL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DBUser, cfg.DBPassword, cfg.DBAddr, cfg.DBPort, cfg.DBName)
}

func postgresDSN(cfg *config.Config) string {
	if cfg.DSNURL != "" {
		return cfg.DSNURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBAddr, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
}

// sqliteDSN 确保数据库目录存在；并发注册时写锁需要等待而不是立即失败
func sqliteDSN(cfg *config.Config) (string, error) {
	filePath := cfg.DBPath
	if filePath == "" {
		filePath = "datas/barefoot.db"
	}
	if dir := filepath.Dir(filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	if strings.Contains(filePath, "?") {
		return filePath, nil
	}
	return filePath + "?_busy_timeout=5000&_journal_mode=WAL", nil
}

func openGormDB(dialector gorm.Dialector) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(logrus.StandardLogger().Writer(), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		// 唯一约束冲突统一转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

var (
	_ Repository = (*sql.GormRepository)(nil)
	_ Repository = (*memory.Repository)(nil)
)
