package main

import (
	"log"

	"github.com/yockii/bionic_reader/internal/model"
	"github.com/yockii/bionic_reader/internal/server"
	"github.com/yockii/bionic_reader/pkg/config"
	"github.com/yockii/bionic_reader/pkg/database"
	"github.com/yockii/bionic_reader/pkg/logger"
	"github.com/yockii/bionic_reader/pkg/util"
)

// @title Bionic Reader API
// @version 1.0
// @description 仿生阅读转换服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 初始化配置
	if err := config.Init(); err != nil {
		log.Fatalf("初始化配置失败: %v", err)
	}

	if err := util.InitNode(config.GetUint64("server.node_id")); err != nil {
		log.Fatalf("初始化ID生成器失败: %v", err)
	}

	// 初始化日志
	logger.Init()
	defer logger.Sync()

	// 连接数据库
	if err := database.Init(); err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}
	defer database.Close()

	// 数据库迁移
	model.AutoMigrate(database.GetDB())

	// 创建服务器实例
	srv := server.New()

	// 启动服务器
	if err := srv.Start(); err != nil {
		log.Fatalf("服务停止: %v", err)
	}
}
