// Package usecase はchatフィーチャーのビジネスロジックを提供します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"covid_market/internal/feature/chat/domain/entity"
)

const (
	// MaxMessageLength はユーザーメッセージの最大文字数です。
	MaxMessageLength = 4000
	// MaxHistoryTurns はAIへ送る過去の発話数の上限です。
	MaxHistoryTurns = 20
	// Greeting は新しい会話の最初に表示するメッセージです。
	Greeting = "Hello! I am your AI assistant. How can I help you today?"
)

// ErrInvalidInput はリクエストが検証に失敗した場合に返されます。
var ErrInvalidInput = errors.New("invalid input")

// Chatter は会話履歴を踏まえて応答を生成するAIクライアントです。
type Chatter interface {
	Chat(ctx context.Context, history []entity.Message, message string) (string, error)
}

// ChatUsecase はステートレスなチャットを提供します。
// 履歴はクライアントが毎回送信し、サーバーには保持しません。
type ChatUsecase struct {
	chatter Chatter
}

// NewChatUsecase はChatUsecaseを生成します。
func NewChatUsecase(chatter Chatter) *ChatUsecase {
	return &ChatUsecase{chatter: chatter}
}

// Greeting は新しい会話用の挨拶を返します。
func (u *ChatUsecase) Greeting() entity.Message {
	return entity.Message{Role: entity.RoleModel, Text: Greeting}
}

// Send はメッセージを検証し、直近の履歴とともにAIへ送信します。
func (u *ChatUsecase) Send(ctx context.Context, history []entity.Message, message string) (entity.Message, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return entity.Message{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return entity.Message{}, fmt.Errorf("%w: message exceeds maximum length of %d characters", ErrInvalidInput, MaxMessageLength)
	}

	turns, err := normalizeHistory(history)
	if err != nil {
		return entity.Message{}, err
	}

	reply, err := u.chatter.Chat(ctx, turns, message)
	if err != nil {
		return entity.Message{}, fmt.Errorf("chat failed: %w", err)
	}
	return entity.Message{Role: entity.RoleModel, Text: strings.TrimSpace(reply)}, nil
}

// normalizeHistory はロールを検証し、空の発話を除いて直近MaxHistoryTurns件に切り詰めます。
func normalizeHistory(history []entity.Message) ([]entity.Message, error) {
	turns := make([]entity.Message, 0, len(history))
	for i, m := range history {
		if !m.Role.Valid() {
			return nil, fmt.Errorf("%w: history[%d] has unknown role %q", ErrInvalidInput, i, m.Role)
		}
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		turns = append(turns, entity.Message{Role: m.Role, Text: text})
	}
	if len(turns) > MaxHistoryTurns {
		turns = turns[len(turns)-MaxHistoryTurns:]
	}
	return turns, nil
}
