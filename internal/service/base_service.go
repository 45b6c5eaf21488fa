package service

import (
	"context"
	"errors"
	"reflect"

	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/model"
	"github.com/yockii/bionic_reader/pkg/database"
	"github.com/yockii/bionic_reader/pkg/logger"
	"gorm.io/gorm"
)

// BaseServiceConfig 通用增删查的可选钩子
type BaseServiceConfig[T model.Model] struct {
	BuildCondition  func(query *gorm.DB, condition T) *gorm.DB
	ListOrder       string
	ListOmitColumns []string
}

type BaseService[T model.Model] struct {
	cfg BaseServiceConfig[T]
}

func NewBaseService[T model.Model](cfg BaseServiceConfig[T]) *BaseService[T] {
	if cfg.ListOrder == "" {
		cfg.ListOrder = "created_at DESC"
	}
	return &BaseService[T]{cfg: cfg}
}

func (s *BaseService[T]) db(ctx context.Context) *gorm.DB {
	return database.GetDB().WithContext(ctx)
}

func (s *BaseService[T]) NewModel() T {
	var t T
	tType := reflect.TypeOf(t)

	// 如果 T 是指针类型，则需要创建指针指向的对象
	if tType.Kind() == reflect.Ptr {
		tType = tType.Elem()                        // 获取指针指向的类型
		value := reflect.New(tType).Interface().(T) // 创建指针类型的实例
		return value
	}

	// 如果 T 是值类型，则直接创建实例
	return reflect.New(tType).Elem().Interface().(T)
}

// Create 创建记录
func (s *BaseService[T]) Create(ctx context.Context, record T) error {
	if err := s.db(ctx).Create(record).Error; err != nil {
		logger.Error("创建记录失败", logger.F("table", record.TableComment()), logger.F("error", err))
		return constant.ErrDatabaseError
	}
	return nil
}

// Get 查询记录
func (s *BaseService[T]) Get(ctx context.Context, id uint64) (T, error) {
	record := s.NewModel()
	if id == 0 {
		return record, constant.ErrRecordIDEmpty
	}
	if err := s.db(ctx).First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, constant.ErrRecordNotFound
		}
		logger.Error("查询记录失败", logger.F("id", id), logger.F("error", err))
		return record, constant.ErrDatabaseError
	}
	return record, nil
}

// List 查询记录列表
func (s *BaseService[T]) List(ctx context.Context, condition T, offset, limit int) ([]T, int64, error) {
	var records []T
	var total int64

	query := s.db(ctx).Model(s.NewModel())

	if omits := s.cfg.ListOmitColumns; len(omits) > 0 {
		query = query.Omit(omits...)
	}

	// 构建查询条件
	if v := reflect.ValueOf(condition); s.cfg.BuildCondition != nil && v.IsValid() && (v.Kind() != reflect.Ptr || !v.IsNil()) {
		query = s.cfg.BuildCondition(query, condition)
	}

	// 查询记录总数
	if err := query.Count(&total).Error; err != nil {
		logger.Error("查询记录总数失败", logger.F("error", err))
		return records, 0, constant.ErrDatabaseError
	}

	if total == 0 || limit <= 0 {
		return records, total, nil
	}

	// 查询记录列表
	if err := query.Offset(offset).Limit(limit).Order(s.cfg.ListOrder).Find(&records).Error; err != nil {
		logger.Error("查询记录失败", logger.F("error", err))
		return records, 0, constant.ErrDatabaseError
	}

	return records, total, nil
}
