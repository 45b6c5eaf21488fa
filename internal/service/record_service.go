package service

import (
	"context"
	"time"

	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/model"
	"github.com/yockii/bionic_reader/pkg/database"
	"github.com/yockii/bionic_reader/pkg/logger"
	"gorm.io/gorm"
)

type recordService struct {
	*BaseService[*model.Conversion]
}

func NewRecordService() RecordService {
	return &recordService{
		BaseService: NewBaseService(BaseServiceConfig[*model.Conversion]{
			BuildCondition: buildConversionCondition,
		}),
	}
}

func buildConversionCondition(query *gorm.DB, condition *model.Conversion) *gorm.DB {
	if condition.Source != "" {
		query = query.Where("source = ?", condition.Source)
	}
	if condition.Format != "" {
		query = query.Where("format = ?", condition.Format)
	}
	if condition.Status != 0 {
		query = query.Where("status = ?", condition.Status)
	}
	if condition.ClientID != "" {
		query = query.Where("client_id = ?", condition.ClientID)
	}
	return query
}

// DeleteOlderThan 删除超过保留天数的记录
func (s *recordService) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, constant.ErrInvalidParams
	}
	deadline := time.Now().AddDate(0, 0, -days)
	result := database.GetDB().WithContext(ctx).Where("created_at < ?", deadline).Delete(&model.Conversion{})
	if result.Error != nil {
		logger.Error("删除旧转换记录失败", logger.F("error", result.Error))
		return 0, constant.ErrDatabaseError
	}
	return result.RowsAffected, nil
}
