// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"io"

	"blueprint-ai-api/internal/application/design"
	"blueprint-ai-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// RevisionHandler 平面图修订处理器
type RevisionHandler struct {
	svc *design.Service
}

// NewRevisionHandler 创建平面图修订处理器
func NewRevisionHandler(svc *design.Service) *RevisionHandler {
	return &RevisionHandler{svc: svc}
}

// Open 打开修订工作台
// @Summary 以某回合的首张 2D 平面图为底图打开修订工作台
// @Tags Revisions
// @Produce json
// @Param sid path string true "会话 ID"
// @Param index path int true "回合索引"
// @Success 200 {object} dto.Response[dto.RevisionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/turns/{index}/revision [post]
func (h *RevisionHandler) Open(c *gin.Context) {
	idx := dto.BindTurnIndex(c)
	if idx < 0 {
		dto.BadRequest(c, "invalid turn index")
		return
	}

	workspace, err := h.svc.OpenRevision(c.Request.Context(), dto.BindSessionID(c), idx)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToRevisionResponse(workspace))
}

// PushStroke 记录一次笔迹
// @Summary 追加一帧标注后的底图快照
// @Tags Revisions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.StrokeRequest true "笔迹快照"
// @Success 200 {object} dto.Response[dto.RevisionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/revision/strokes [post]
func (h *RevisionHandler) PushStroke(c *gin.Context) {
	var req dto.StrokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	workspace, err := h.svc.PushStroke(c.Request.Context(), dto.BindSessionID(c), req.Snapshot)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToRevisionResponse(workspace))
}

// UndoStroke 撤销最近一次笔迹
// @Summary 撤销最近一次笔迹，不会撤销到底图之前
// @Tags Revisions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.RevisionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/revision/undo [post]
func (h *RevisionHandler) UndoStroke(c *gin.Context) {
	workspace, err := h.svc.UndoStroke(c.Request.Context(), dto.BindSessionID(c))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToRevisionResponse(workspace))
}

// ClearStrokes 清除全部笔迹
// @Summary 清除全部笔迹，恢复为原始底图
// @Tags Revisions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.RevisionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/revision/clear [post]
func (h *RevisionHandler) ClearStrokes(c *gin.Context) {
	workspace, err := h.svc.ClearStrokes(c.Request.Context(), dto.BindSessionID(c))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToRevisionResponse(workspace))
}

// Close 关闭修订工作台
// @Summary 放弃修订并关闭工作台
// @Tags Revisions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/revision [delete]
func (h *RevisionHandler) Close(c *gin.Context) {
	if err := h.svc.CloseRevision(c.Request.Context(), dto.BindSessionID(c)); err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.NoContent(c)
}

// Submit 提交修订
// @Summary 将标注后的平面图与修订说明送入生成后端
// @Description 成功时在对话日志末尾追加新的模型回合并关闭工作台。
// @Description 后端返回的图像不足两张时修订失败，日志保持不变
// @Tags Revisions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SubmitRevisionRequest true "修订说明"
// @Success 200 {object} dto.Response[dto.TurnResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/revision/submit [post]
func (h *RevisionHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.SubmitRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	turn, err := h.svc.SubmitRevision(ctx, sessionID, req.Prompt)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	session, err := h.svc.GetSession(ctx, sessionID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToTurnResponse(session.TurnCount()-1, turn))
}
