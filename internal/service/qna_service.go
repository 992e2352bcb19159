package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"qbot-api/internal/ai"
	"qbot-api/internal/core/cache"
	"qbot-api/internal/domain"
)

const qnaCacheTTL = 5 * time.Minute

type QnaService struct {
	qnas  domain.QnaRepository
	ai    ai.Answerer
	cache *cache.Cache // 可为 nil（未配置 redis）
	log   *zap.Logger
}

func NewQnaService(qnas domain.QnaRepository, answerer ai.Answerer, c *cache.Cache, log *zap.Logger) *QnaService {
	return &QnaService{qnas: qnas, ai: answerer, cache: c, log: log}
}

// Ask 先拿到答案再落库，写事务不跨上游调用
func (s *QnaService) Ask(ctx context.Context, ownerID, question string) (*domain.QuestionAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrInvalidInput
	}

	answer, err := s.ai.Answer(ctx, question)
	if err != nil {
		s.log.Warn("answer generation failed", zap.Error(err))
		return nil, err
	}

	title, err := s.ai.Title(ctx, question)
	if err != nil || strings.TrimSpace(title) == "" {
		// 标题不致命，留空让仓储按问题截断
		title = ""
	}

	qa := &domain.QuestionAnswer{
		UserID:   ownerID,
		Title:    title,
		Question: question,
		Answer:   answer,
	}
	if err := s.qnas.Create(ctx, qa); err != nil {
		return nil, err
	}
	return qa, nil
}

func (s *QnaService) History(ctx context.Context, ownerID string) ([]domain.QuestionAnswer, error) {
	return s.qnas.ListByOwner(ctx, ownerID)
}

func (s *QnaService) Get(ctx context.Context, ownerID, id string) (*domain.QuestionAnswer, error) {
	var qa *domain.QuestionAnswer
	var err error
	if s.cache != nil {
		qa, err = cache.GetOrLoadJSON(s.cache, ctx, qnaCacheKey(ownerID, id), qnaCacheTTL,
			func(ctx context.Context) (*domain.QuestionAnswer, error) {
				return s.qnas.Get(ctx, id, ownerID)
			})
	} else {
		qa, err = s.qnas.Get(ctx, id, ownerID)
	}
	if err != nil {
		return nil, err
	}
	if qa == nil {
		return nil, domain.ErrNotFound
	}
	return qa, nil
}

func (s *QnaService) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.qnas.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, qnaCacheKey(ownerID, id))
	}
	return nil
}

func qnaCacheKey(ownerID, id string) string {
	return fmt.Sprintf("qna:%s:%s", ownerID, id)
}
