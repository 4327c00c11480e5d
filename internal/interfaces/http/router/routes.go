// Package router 提供 HTTP 路由配置
package router

import (
	"blueprint-ai-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	sessionHandler *handler.SessionHandler,
	conversationHandler *handler.ConversationHandler,
	interiorHandler *handler.InteriorHandler,
	revisionHandler *handler.RevisionHandler,
	metaHandler *handler.MetaHandler,
) {
	// 客户端引导信息
	v1.GET("/meta", metaHandler.Get)

	// 会话管理
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Create)
		sessions.GET("/:sid", sessionHandler.Get)
		sessions.DELETE("/:sid", sessionHandler.Delete)
		sessions.POST("/:sid/reset", sessionHandler.Reset)
		sessions.PUT("/:sid/mode", sessionHandler.SetMode)

		// 对话操作
		sessions.POST("/:sid/messages", conversationHandler.Send)
		sessions.POST("/:sid/turns/:index/edit", conversationHandler.BeginEdit)
		sessions.POST("/:sid/turns/:index/reply", conversationHandler.BeginReply)
		sessions.DELETE("/:sid/intent", conversationHandler.CancelIntent)
		sessions.PUT("/:sid/upload", conversationHandler.PutUpload)
		sessions.DELETE("/:sid/upload", conversationHandler.DeleteUpload)

		// 室内视角
		sessions.POST("/:sid/turns/:index/interior", interiorHandler.Explore)

		// 平面图修订
		sessions.POST("/:sid/turns/:index/revision", revisionHandler.Open)
		sessions.DELETE("/:sid/revision", revisionHandler.Close)
		sessions.POST("/:sid/revision/strokes", revisionHandler.PushStroke)
		sessions.POST("/:sid/revision/undo", revisionHandler.UndoStroke)
		sessions.POST("/:sid/revision/clear", revisionHandler.ClearStrokes)
		sessions.POST("/:sid/revision/submit", revisionHandler.Submit)
	}
}
