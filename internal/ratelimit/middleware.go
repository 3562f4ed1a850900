package ratelimit

import (
	"context"
	"errors"

	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"
)

// ErrTooManyRequests 限流拒绝，消息原样返回给客户端
var ErrTooManyRequests = errors.New("Too many requests")

// Middleware 令牌不足时直接返回 429，不排队等待
func Middleware(bucket *TokenBucket) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if bucket.Allow() {
			ctx.Next(c)
			return
		}
		tracing.RecordHTTPError(trace.SpanFromContext(c), ErrTooManyRequests, consts.StatusTooManyRequests, tracing.ErrorTypeHTTP)
		logger.Ctx(c).Warn().Str("path", string(ctx.Path())).Msg("请求被限流")
		ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{"error": ErrTooManyRequests.Error()})
	}
}
