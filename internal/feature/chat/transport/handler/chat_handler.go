// Package handler はchatフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"covid_market/internal/api"
	"covid_market/internal/feature/chat/domain/entity"
	"covid_market/internal/feature/chat/usecase"
)

// ChatUsecase はチャットのユースケースインターフェースを定義します。
type ChatUsecase interface {
	Greeting() entity.Message
	Send(ctx context.Context, history []entity.Message, message string) (entity.Message, error)
}

// ChatHandler はチャットのHTTPリクエストを処理します。
type ChatHandler struct {
	uc ChatUsecase
}

// NewChatHandler はChatHandlerの新しいインスタンスを生成します。
func NewChatHandler(uc ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Greeting は新しい会話用の挨拶を返します。
//
// エンドポイント: GET /v1/chat/greeting
func (h *ChatHandler) Greeting(c *gin.Context) {
	c.JSON(http.StatusOK, api.ChatResponse{Reply: toMessage(h.uc.Greeting())})
}

// Send はユーザーメッセージに対するAIの応答を返します。
//
// エンドポイント: POST /v1/chat
func (h *ChatHandler) Send(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("chat request validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	history := make([]entity.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, entity.Message{Role: entity.Role(m.Role), Text: m.Text})
	}

	reply, err := h.uc.Send(c.Request.Context(), history, req.Message)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			slog.Warn("chat request rejected", "error", err)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("chat failed", "error", err, "history_len", len(history))
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "AI chat failed"})
		return
	}

	c.JSON(http.StatusOK, api.ChatResponse{Reply: toMessage(reply)})
}

func toMessage(m entity.Message) api.ChatMessage {
	return api.ChatMessage{Role: string(m.Role), Text: m.Text}
}
