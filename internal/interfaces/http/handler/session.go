// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"io"

	"blueprint-ai-api/internal/application/design"
	"blueprint-ai-api/internal/interfaces/http/dto"
	"blueprint-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SessionHandler 设计会话处理器
type SessionHandler struct {
	svc *design.Service
}

// NewSessionHandler 创建设计会话处理器
func NewSessionHandler(svc *design.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Create 创建会话
// @Summary 创建设计会话
// @Description 创建一个新的设计会话，对话以固定问候语开场
// @Tags Sessions
// @Produce json
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	session, err := h.svc.CreateSession(ctx)
	if err != nil {
		logger.Error(ctx, "failed to create session", err)
		dto.FromAppError(c, err)
		return
	}

	dto.Created(c, dto.ToSessionResponse(session.Snapshot()))
}

// Get 获取会话详情
// @Summary 获取会话详情
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.svc.GetSession(c.Request.Context(), dto.BindSessionID(c))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToSessionResponse(session.Snapshot()))
}

// Delete 删除会话
// @Summary 删除会话
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteSession(c.Request.Context(), dto.BindSessionID(c)); err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.NoContent(c)
}

// Reset 重置会话
// @Summary 重置会话
// @Description 清空对话日志并恢复初始问候语，意图与上传图像一并清除
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	session, err := h.svc.ResetSession(c.Request.Context(), dto.BindSessionID(c))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToSessionResponse(session.Snapshot()))
}

// SetMode 切换生成模式
// @Summary 切换生成模式
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SetModeRequest true "模式请求"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/mode [put]
func (h *SessionHandler) SetMode(c *gin.Context) {
	var req dto.SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	session, err := h.svc.SetMode(c.Request.Context(), dto.BindSessionID(c), req.Mode)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToSessionResponse(session.Snapshot()))
}
