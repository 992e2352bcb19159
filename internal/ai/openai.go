package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"qbot-api/internal/domain"
)

const (
	answerSystemPrompt = "You are an assistant that provides helpful answers. Generate the answer in markdown format."
	titleSystemPrompt  = "Generate a brief, concise title (maximum 3-5 words) that summarizes the following question. " +
		"Return only the title without any additional text or punctuation."

	titleMaxTokens = 50
)

// Answerer 上游 AI 协作方。每次调用至多发起一次外部请求，不重试。
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
	Title(ctx context.Context, question string) (string, error)
}

type Options struct {
	APIKey          string
	BaseURL         string // 留空用官方地址
	AnswerModel     string
	TitleModel      string
	AnswerMaxTokens int
	RequestTimeout  time.Duration
}

type Client struct {
	c   *openai.Client
	opt Options
}

func NewClient(opt Options) *Client {
	cfg := openai.DefaultConfig(opt.APIKey)
	if opt.BaseURL != "" {
		cfg.BaseURL = opt.BaseURL
	}
	// 客户端超时兜底，防止挂在上游
	cfg.HTTPClient = &http.Client{Timeout: opt.RequestTimeout}
	return &Client{c: openai.NewClientWithConfig(cfg), opt: opt}
}

func (cl *Client) Answer(ctx context.Context, question string) (string, error) {
	out, err := cl.complete(ctx, cl.opt.AnswerModel, answerSystemPrompt, question, cl.opt.AnswerMaxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if out == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}
	return out, nil
}

// Title 失败不致命，调用方回退到截断标题
func (cl *Client) Title(ctx context.Context, question string) (string, error) {
	out, err := cl.complete(ctx, cl.opt.TitleModel, titleSystemPrompt, question, titleMaxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return out, nil
}

func (cl *Client) complete(ctx context.Context, model, system, user string, maxTokens int) (string, error) {
	resp, err := cl.c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
