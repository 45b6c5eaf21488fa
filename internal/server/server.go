package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	middlewareLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shirou/gopsutil/v3/process"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	_ "github.com/yockii/bionic_reader/docs"
	appapi "github.com/yockii/bionic_reader/internal/api_app"
	sysapi "github.com/yockii/bionic_reader/internal/api_sys"
	"github.com/yockii/bionic_reader/internal/middleware"
	"github.com/yockii/bionic_reader/internal/service"
	"github.com/yockii/bionic_reader/pkg/config"
	"github.com/yockii/bionic_reader/pkg/logger"
)

type Server struct {
	app  *fiber.App
	done chan struct{}

	// 各个service
	authSrv       service.AuthService
	recordSrv     service.RecordService
	cacheSrv      service.CacheService
	conversionSrv service.ConversionService
}

func New() *Server {
	return &Server{done: make(chan struct{})}
}

// App 构建fiber实例并注册全部路由，Start前调用或测试中直接使用
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	s.app = fiber.New(fiber.Config{
		AppName:               config.GetString("server.app_name"),
		EnablePrintRoutes:     config.GetBool("server.print_routes"),
		DisableStartupMessage: true,
		BodyLimit:             config.GetInt("server.body_limit_mb") * 1024 * 1024,
	})

	s.setupServices()

	// 配置中间件
	s.setupMiddleware()

	// 注册路由
	s.registerHandlers()
	s.setupSystemRoutesV1()
	s.setupApplicationRoutesV1()
	return s.app
}

func (s *Server) Start() error {
	app := s.App()

	go s.cleanupRecords()

	// 启动服务器
	addr := config.GetServerAddress()
	logger.Info("服务监听地址", logger.F("address", addr))

	// 优雅关闭
	go s.gracefulShutdown()

	if err := app.Listen(addr); err != nil {
		logger.Error("服务停止", logger.F("error", err))
		return err
	}
	return nil
}

func (s *Server) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务关闭中...")
	close(s.done)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		logger.Error("服务关闭失败", logger.F("error", err))
	}

	logger.Info("服务已关闭")
}

// cleanupRecords 每天清理一次超出保留期的转换记录
func (s *Server) cleanupRecords() {
	days := config.GetInt("database.retention_days")
	if days <= 0 {
		return
	}
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		n, err := s.recordSrv.DeleteOlderThan(context.Background(), days)
		if err == nil && n > 0 {
			logger.Info("已清理过期转换记录", logger.F("count", n))
		}
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}

// setupServices 配置服务层
func (s *Server) setupServices() {
	s.authSrv = service.NewAuthService()
	s.recordSrv = service.NewRecordService()
	s.cacheSrv = service.NewCacheService()
	s.conversionSrv = service.NewConversionService(service.OptionsFromConfig(), s.recordSrv, s.cacheSrv)
}

// setupMiddleware 配置中间件
func (s *Server) setupMiddleware() {
	// 异常恢复
	s.app.Use(recover.New())

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  config.GetString("security.allowed_origins"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "Content-Disposition, X-Request-ID",
	}))

	s.app.Use(middleware.RequestID())

	// 访问日志
	s.app.Use(middlewareLogger.New(middlewareLogger.Config{
		Format:     "[${ip}]-${time} ${status} ${latency} ${method} ${path} ${respHeader:X-Request-ID} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	// 健康检查
	s.app.Get("/health", s.health)

	// 接口文档
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
}

func (s *Server) registerHandlers() {
	sysapi.RegisterTokenHandler(s.authSrv)
	sysapi.RegisterConversionHandler(s.recordSrv)

	appapi.RegisterConvertHandler(
		s.conversionSrv,
		int64(config.GetInt("server.body_limit_mb"))*1024*1024,
	)
}

// rateLimit 未启用限流时返回空中间件
func (s *Server) rateLimit() fiber.Handler {
	if !config.GetBool("rate_limit.enabled") {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	limiter := middleware.NewRateLimiter(
		config.GetInt("rate_limit.max_requests"),
		time.Duration(config.GetInt("rate_limit.duration"))*time.Second,
	)
	go limiter.StartCleanup(time.Minute, s.done)
	return middleware.RateLimit(limiter)
}

// setupSystemRoutesV1 配置系统路由
func (s *Server) setupSystemRoutesV1() {
	sysAuthMiddleware := middleware.NewAuthMiddleware(s.authSrv, true)

	apiGroup := s.app.Group("/sys_api/v1", s.rateLimit())
	for _, handler := range sysapi.Handlers {
		handler.RegisterRoutes(apiGroup, sysAuthMiddleware)
	}
}

// setupApplicationRoutesV1 配置转换接口路由
func (s *Server) setupApplicationRoutesV1() {
	appAuthMiddleware := middleware.NewAuthMiddleware(s.authSrv, config.GetBool("security.auth_enabled"))
	appApiGroup := s.app.Group("/api/v1", appAuthMiddleware, s.rateLimit())
	for _, handler := range appapi.Handlers {
		handler.RegisterRoutes(appApiGroup)
	}
}

type HealthStatus struct {
	Status     string  `json:"status"`
	RSSBytes   uint64  `json:"rssBytes"`
	CPUPercent float64 `json:"cpuPercent"`
}

// health godoc
// @Summary 健康检查
// @Tags system
// @Produce json
// @Success 200 {object} service.Response{data=HealthStatus}
// @Router /health [get]
func (s *Server) health(c *fiber.Ctx) error {
	status := HealthStatus{Status: "ok"}
	proc, err := process.NewProcessWithContext(c.Context(), int32(os.Getpid()))
	if err == nil {
		if mem, err := proc.MemoryInfoWithContext(c.Context()); err == nil {
			status.RSSBytes = mem.RSS
		}
		if cpu, err := proc.CPUPercentWithContext(c.Context()); err == nil {
			status.CPUPercent = cpu
		}
	}
	return c.JSON(service.OK(status))
}
