package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"qbot-api/internal/domain"
	"qbot-api/pkg/utils"
)

type QnaRepo struct{ db *gorm.DB }

func NewQnaRepo(db *gorm.DB) *QnaRepo { return &QnaRepo{db: db} }

func (r *QnaRepo) Create(ctx context.Context, qa *domain.QuestionAnswer) error {
	if qa.ID == "" {
		qa.ID = utils.NewID()
	}
	if strings.TrimSpace(qa.Title) == "" {
		qa.Title = domain.DefaultTitle(qa.Question)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(qa).Error
	})
	if err != nil {
		return fmt.Errorf("%w: create qna: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *QnaRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.QuestionAnswer, error) {
	items := make([]domain.QuestionAnswer, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list qna: %v", domain.ErrPersistence, err)
	}
	return items, nil
}

// Get 按 id+owner 一次查出；不存在和非本人持有同样返回 (nil, nil)
func (r *QnaRepo) Get(ctx context.Context, id, ownerID string) (*domain.QuestionAnswer, error) {
	var qa domain.QuestionAnswer
	err := r.db.WithContext(ctx).First(&qa, "id = ? AND user_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get qna: %v", domain.ErrPersistence, err)
	}
	return &qa, nil
}

func (r *QnaRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&domain.QuestionAnswer{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: delete qna: %v", domain.ErrPersistence, err)
	}
	return deleted, nil
}
