package router

import (
	"context"
	"encoding/json"
	"errors"

	"resume-fields/internal/api/handler"
	"resume-fields/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
	"go.opentelemetry.io/otel/trace"
)

var errInvalidAPIKey = errors.New("invalid api key")

// RegisterRoutes 注册 API 路由
// apiKeys 非空时 /resume 下的接口需要 Authorization: Bearer <key>
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, apiKeys []string) {
	api := h.Group("/api/v1")

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	var middlewares []app.HandlerFunc
	if len(apiKeys) > 0 {
		middlewares = append(middlewares, apiKeyAuth(apiKeys))
	}
	resume := api.Group("/resume", middlewares...)

	resume.POST("/parse", func(c context.Context, ctx *app.RequestContext) {
		var req handler.ParseRequest
		if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
			respondError(c, ctx, consts.StatusBadRequest, err, "请求体不是有效的JSON")
			return
		}

		resp, err := resumeHandler.HandleParse(c, req)
		if err != nil {
			if errors.Is(err, handler.ErrNoPaths) || errors.Is(err, handler.ErrPathNotAllowed) {
				respondError(c, ctx, consts.StatusBadRequest, err, err.Error())
				return
			}
			respondError(c, ctx, consts.StatusInternalServerError, err, err.Error())
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	resume.POST("/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			respondError(c, ctx, consts.StatusBadRequest, err, "文件未找到")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, ctx, consts.StatusInternalServerError, err, "打开文件失败")
			return
		}
		defer file.Close()

		record, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Filename)
		if err != nil {
			respondError(c, ctx, consts.StatusInternalServerError, err, err.Error())
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})
}

// respondError 写出错误响应，并记录到当前请求的 span
func respondError(c context.Context, ctx *app.RequestContext, status int, err error, msg string) {
	tracing.RecordHTTPError(trace.SpanFromContext(c), err, status)
	ctx.JSON(status, utils.H{"error": msg})
}

func apiKeyAuth(apiKeys []string) app.HandlerFunc {
	allowed := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		allowed[k] = struct{}{}
	}
	return keyauth.New(
		keyauth.WithValidator(func(_ context.Context, _ *app.RequestContext, key string) (bool, error) {
			if _, ok := allowed[key]; ok {
				return true, nil
			}
			return false, errInvalidAPIKey
		}),
	)
}
