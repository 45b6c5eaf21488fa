package model

import (
	"fmt"
	"time"

	"github.com/yockii/bionic_reader/pkg/config"
	"github.com/yockii/bionic_reader/pkg/logger"
	"gorm.io/gorm"
)

type Model interface {
	TableComment() string
	GetID() uint64
}

type BaseModel struct {
	ID        uint64    `json:"id,string" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt,omitzero" gorm:"not null;index"`
}

func (b *BaseModel) TableComment() string {
	return "基础模型"
}

func (b *BaseModel) GetID() uint64 {
	return b.ID
}

var models []Model

func AutoMigrate(db *gorm.DB) {
	switch dt := config.GetString("database.type"); dt {
	case "mysql":
		migrator := db.Migrator()
		for _, m := range models {
			if !migrator.HasTable(m) {
				if err := db.Set("gorm:table_options", fmt.Sprintf("ENGINE=innoDB DEFAULT CHARSET=utf8mb4 COMMENT='%s';", m.TableComment())).AutoMigrate(m); err != nil {
					logger.Error("自动迁移表失败", logger.F("error", err))
				}
			} else {
				_ = migrator.AutoMigrate(m)
			}
		}
	case "postgres":
		migrateAll(db)
		// 添加表注释
		for _, m := range models {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err != nil {
				logger.Error("解析模型失败", logger.F("error", err))
				continue
			}
			tableName := stmt.Table
			if err := db.Exec(fmt.Sprintf("COMMENT ON TABLE %s IS '%s';", tableName, m.TableComment())).Error; err != nil {
				logger.Error("添加表注释失败", logger.F("error", err))
			}
		}
	case "sqlite", "":
		migrateAll(db)
	default:
		logger.Error("不支持的数据库类型", logger.F("type", dt))
	}
}

func migrateAll(db *gorm.DB) {
	var mList []interface{}
	for _, m := range models {
		mList = append(mList, m)
	}
	if err := db.AutoMigrate(mList...); err != nil {
		logger.Error("自动迁移表失败", logger.F("error", err))
	}
}
