// Package handler 提供 HTTP 请求处理器
package handler

import (
	"blueprint-ai-api/internal/application/design"
	"blueprint-ai-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// InteriorHandler 室内视角处理器
type InteriorHandler struct {
	svc *design.Service
}

// NewInteriorHandler 创建室内视角处理器
func NewInteriorHandler(svc *design.Service) *InteriorHandler {
	return &InteriorHandler{svc: svc}
}

// Explore 生成室内视角
// @Summary 生成平面图上某点的室内视角
// @Description 在目标回合的 2D 平面图上按展示坐标打点后请求室内渲染，
// @Description 不修改对话日志。相同坐标的并发请求会合并为一次生成
// @Tags Interior
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param index path int true "回合索引"
// @Param body body dto.InteriorRequest true "室内视角请求"
// @Success 200 {object} dto.Response[dto.InteriorResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/turns/{index}/interior [post]
func (h *InteriorHandler) Explore(c *gin.Context) {
	idx := dto.BindTurnIndex(c)
	if idx < 0 {
		dto.BadRequest(c, "invalid turn index")
		return
	}

	var req dto.InteriorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	image, err := h.svc.ExploreInterior(c.Request.Context(), dto.BindSessionID(c), design.InteriorRequest{
		TurnIndex: idx,
		X:         req.X,
		Y:         req.Y,
		DisplayW:  req.DisplayW,
		DisplayH:  req.DisplayH,
	})
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, &dto.InteriorResponse{Image: image})
}
