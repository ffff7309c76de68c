// Package gemini はGoogle Gemini APIを使用したAIクライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	chatentity "covid_market/internal/feature/chat/domain/entity"
	chatusecase "covid_market/internal/feature/chat/usecase"
	insightusecase "covid_market/internal/feature/insight/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout はAPI呼び出し1回あたりのタイムアウトです。
	DefaultTimeout = 60 * time.Second

	chatInstruction = "You are a helpful and friendly AI assistant. Keep your responses concise and informative."
)

// ErrEmptyResponse はモデルがテキストを返さなかった場合に返されます。
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// Config はGeminiクライアントの設定です。
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string // テストやプロキシ用。空ならSDKのデフォルト
	Timeout   time.Duration
	UseVertex bool
}

// LoadConfig は環境変数からGemini設定を読み込みます。
// APIキーが無くVertex AIも指定されていない場合はADCを使用します。
func LoadConfig() Config {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}
	return Config{
		APIKey:    apiKey,
		Model:     model,
		BaseURL:   os.Getenv("GEMINI_BASE_URL"),
		Timeout:   DefaultTimeout,
		UseVertex: strings.EqualFold(os.Getenv("GOOGLE_GENAI_USE_VERTEXAI"), "true"),
	}
}

// Client はGemini APIを使用して分析とチャットを行います。
type Client struct {
	client *genai.Client
	model  string
}

// ClientがAnalyzerとChatterを実装していることをコンパイル時に検証します。
var (
	_ insightusecase.Analyzer = (*Client)(nil)
	_ chatusecase.Chatter     = (*Client)(nil)
)

// NewClient はGeminiクライアントを生成します。
func NewClient(ctx context.Context, cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	var cc *genai.ClientConfig
	if cfg.APIKey != "" || cfg.BaseURL != "" {
		cc = &genai.ClientConfig{
			APIKey:      cfg.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  httpClient,
			HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
		}
		if cfg.UseVertex {
			cc.Backend = genai.BackendVertexAI
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: cfg.Model}, nil
}

// Analyze はプロンプトを使用して分析テキストを生成します。
func (g *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return textOf(resp)
}

// Chat は会話履歴から新しいチャットセッションを作成し、メッセージを送信します。
func (g *Client) Chat(ctx context.Context, history []chatentity.Message, message string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatInstruction, genai.RoleUser),
	}
	chat, err := g.client.Chats.Create(ctx, g.model, config, toContents(history))
	if err != nil {
		return "", fmt.Errorf("failed to create chat session: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return textOf(resp)
}

func textOf(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func toContents(history []chatentity.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == chatentity.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return contents
}
