// Package handler 提供 HTTP 请求处理器
package handler

import (
	"blueprint-ai-api/internal/application/design"
	"blueprint-ai-api/internal/config"
	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// MetaHandler 客户端引导信息处理器
type MetaHandler struct {
	cfg *config.Config
}

// NewMetaHandler 创建客户端引导信息处理器
func NewMetaHandler(cfg *config.Config) *MetaHandler {
	return &MetaHandler{cfg: cfg}
}

// Get 获取引导信息
// @Summary 获取客户端引导信息
// @Description 返回可用生成模式、后端模型、上传限制与加载提示语
// @Tags System
// @Produce json
// @Success 200 {object} dto.Response[dto.MetaResponse]
// @Router /v1/meta [get]
func (h *MetaHandler) Get(c *gin.Context) {
	dto.Success(c, &dto.MetaResponse{
		Modes:          []string{string(entity.ModeArchitect), string(entity.ModeChat)},
		Model:          h.cfg.Backend.Model,
		MaxUploadBytes: h.cfg.Limits.MaxUploadBytes,
		LoadingPhases:  design.LoadingPhases,
		Welcome:        entity.WelcomeText,
	})
}
