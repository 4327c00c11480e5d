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

// ConversationHandler 对话操作处理器
type ConversationHandler struct {
	svc *design.Service
}

// NewConversationHandler 创建对话操作处理器
func NewConversationHandler(svc *design.Service) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// Send 发送消息
// @Summary 发送消息并生成回应
// @Description 将消息送入生成后端。处于编辑意图时改写目标回合并截断后续日志，
// @Description 处于回复意图时附带目标回合的方案图像。同一会话同时只允许一次生成
// @Tags Conversations
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SendMessageRequest false "消息请求"
// @Success 200 {object} dto.Response[dto.SendMessageResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/messages [post]
func (h *ConversationHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Send(ctx, sessionID, req.Text)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	session, err := h.svc.GetSession(ctx, sessionID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	snap := session.Snapshot()

	if result.Err != nil {
		logger.Error(ctx, "generation failed, apology turn appended", result.Err,
			"session_id", sessionID)
	}

	dto.Success(c, &dto.SendMessageResponse{
		Turn:    dto.ToTurnResponse(len(snap.Turns)-1, result.Turn),
		Session: dto.ToSessionResponse(snap),
	})
}

// BeginEdit 进入编辑意图
// @Summary 标记某个用户回合进入编辑
// @Description 返回该回合现有文本作为输入框种子，下一次发送将改写该回合
// @Tags Conversations
// @Produce json
// @Param sid path string true "会话 ID"
// @Param index path int true "回合索引"
// @Success 200 {object} dto.Response[dto.EditSeedResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/turns/{index}/edit [post]
func (h *ConversationHandler) BeginEdit(c *gin.Context) {
	idx := dto.BindTurnIndex(c)
	if idx < 0 {
		dto.BadRequest(c, "invalid turn index")
		return
	}

	seed, err := h.svc.BeginEdit(c.Request.Context(), dto.BindSessionID(c), idx)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, &dto.EditSeedResponse{TurnIndex: idx, Seed: seed})
}

// BeginReply 进入回复意图
// @Summary 标记以某个回合的方案图像为上下文回复
// @Tags Conversations
// @Produce json
// @Param sid path string true "会话 ID"
// @Param index path int true "回合索引"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/turns/{index}/reply [post]
func (h *ConversationHandler) BeginReply(c *gin.Context) {
	idx := dto.BindTurnIndex(c)
	if idx < 0 {
		dto.BadRequest(c, "invalid turn index")
		return
	}

	if err := h.svc.BeginReply(c.Request.Context(), dto.BindSessionID(c), idx); err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.NoContent(c)
}

// CancelIntent 取消待处理意图
// @Summary 将编辑或回复意图复位为空闲
// @Tags Conversations
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/intent [delete]
func (h *ConversationHandler) CancelIntent(c *gin.Context) {
	if err := h.svc.CancelIntent(c.Request.Context(), dto.BindSessionID(c)); err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.NoContent(c)
}

// PutUpload 暂存上传图像
// @Summary 暂存随下一条消息发送的参考图像
// @Tags Conversations
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.UploadRequest true "上传请求"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/upload [put]
func (h *ConversationHandler) PutUpload(c *gin.Context) {
	var req dto.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.SetUpload(c.Request.Context(), dto.BindSessionID(c), req.Image); err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.NoContent(c)
}

// DeleteUpload 移除暂存的上传图像
// @Summary 移除暂存的参考图像
// @Tags Conversations
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/upload [delete]
func (h *ConversationHandler) DeleteUpload(c *gin.Context) {
	if err := h.svc.ClearUpload(c.Request.Context(), dto.BindSessionID(c)); err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.NoContent(c)
}
