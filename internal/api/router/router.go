package router

import (
	"context"
	"time"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/constants"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
)

// RegisterRoutes 注册 API 路由，uploadMiddleware 只作用于解析接口
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, uploadMiddleware ...app.HandlerFunc) {
	parseChain := append(append([]app.HandlerFunc{}, uploadMiddleware...), resumeHandler.ParseResume)
	h.POST(constants.ParseResumePath, parseChain...)

	// 添加健康检查
	h.GET(constants.HealthPath, resumeHandler.Health)
}

// RequestLogger 记录每个请求的方法、路径、状态码和耗时
func RequestLogger() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d (%s)", ctx.Response.StatusCode(), time.Since(start))
	}
}
