package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/api/router"
	"resume-parser-go/internal/config"
	appCoreLogger "resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/ratelimit"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		glog.Fatalf("配置校验失败: %v", err)
	}

	if err := appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
		File:         cfg.Logger.File,
	}); err != nil {
		glog.Fatalf("初始化日志失败: %v", err)
	}
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}

	store, err := storage.NewPayloadStore(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化暂存后端失败: %v", err)
	}
	stager := storage.NewStager(store, cfg.Staging.KeyPrefix)

	resumeProcessor, err := processor.NewProcessorFromConfig(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化ResumeProcessor失败: %v", err)
	}

	resumeHandler := handler.NewResumeHandler(resumeProcessor, stager,
		handler.WithMaxUploadBytes(int64(cfg.MaxUploadBytes())))

	appCoreLogger.Info().
		Str("pdf_engine", resumeProcessor.PDFEngine()).
		Bool("parallel", cfg.Extraction.Parallel).
		Str("staging_backend", stager.Backend()).
		Int64("max_upload_bytes", resumeHandler.MaxUploadBytes()).
		Msg("ResumeProcessor初始化成功")

	// 上传大小由 handler 校验并返回 413，传输层上限只拦截异常大的请求
	opts := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(cfg.MaxRequestBytes()),
		server.WithHandleMethodNotAllowed(true),
	}
	var tracerCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		var tracerOpt hertzconfig.Option
		tracerOpt, tracerCfg = hertztracing.NewServerTracer()
		opts = append(opts, tracerOpt)
	}

	h := server.New(opts...)
	if tracerCfg != nil {
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	}
	h.Use(router.RequestLogger())

	var uploadMiddleware []app.HandlerFunc
	if cfg.Server.RateLimitPerMinute > 0 {
		uploadMiddleware = append(uploadMiddleware,
			ratelimit.Middleware(ratelimit.NewTokenBucket(cfg.Server.RateLimitPerMinute, cfg.Server.RateLimitBurst)))
		glog.Infof("解析接口限流已开启: %d 次/分钟", cfg.Server.RateLimitPerMinute)
	}
	router.RegisterRoutes(h, resumeHandler, uploadMiddleware...)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		appCoreLogger.Error().Err(err).Msg("服务器关闭失败")
	}
	if err := storage.CloseStore(store); err != nil {
		appCoreLogger.Warn().Err(err).Str("backend", stager.Backend()).Msg("关闭暂存后端失败")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appCoreLogger.Warn().Err(err).Msg("关闭链路追踪失败")
	}
	glog.Info("优雅退出完成")
}
