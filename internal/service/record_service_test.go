package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/internal/model"
	"github.com/yockii/bionic_reader/pkg/config"
	"github.com/yockii/bionic_reader/pkg/database"
	"github.com/yockii/bionic_reader/pkg/util"
	gormlogger "gorm.io/gorm/logger"
)

func setupDB(t *testing.T) {
	t.Helper()
	config.InitDefaults()
	require.NoError(t, util.InitNode(1))

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name), gormlogger.Silent)
	require.NoError(t, err)
	database.SetDB(db)
	model.AutoMigrate(db)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
}

func TestRecordService(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	svc := NewRecordService()

	first := &model.Conversion{Source: model.ConversionSourceText, Format: "text", Status: model.ConversionStatusSuccess, ClientID: "web"}
	second := &model.Conversion{Source: model.ConversionSourceFile, Format: "docx", Status: model.ConversionStatusFailed, ClientID: "cli"}
	require.NoError(t, svc.Create(ctx, first))
	require.NoError(t, svc.Create(ctx, second))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "docx", got.Format)

	_, err = svc.Get(ctx, 12345)
	assert.ErrorIs(t, err, constant.ErrRecordNotFound)
	_, err = svc.Get(ctx, 0)
	assert.ErrorIs(t, err, constant.ErrRecordIDEmpty)

	list, total, err := svc.List(ctx, &model.Conversion{Source: model.ConversionSourceFile}, 0, DefaultPageSize)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	_, total, err = svc.List(ctx, nil, 0, DefaultPageSize)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestRecordServiceDeleteOlderThan(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	svc := NewRecordService()

	old := &model.Conversion{Source: model.ConversionSourceText}
	old.CreatedAt = time.Now().AddDate(0, 0, -40)
	recent := &model.Conversion{Source: model.ConversionSourceText}
	require.NoError(t, svc.Create(ctx, old))
	require.NoError(t, svc.Create(ctx, recent))

	n, err := svc.DeleteOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.Get(ctx, old.ID)
	assert.ErrorIs(t, err, constant.ErrRecordNotFound)

	_, err = svc.DeleteOlderThan(ctx, 0)
	assert.ErrorIs(t, err, constant.ErrInvalidParams)
}
