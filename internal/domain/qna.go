package domain

import (
	"context"
	"time"
)

type QuestionAnswer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (QuestionAnswer) TableName() string { return "questions_answers" }

// QnaRepository 所有按 id 的查询都同时带 owner 过滤：
// 不存在与不属于当前用户对调用方不可区分
type QnaRepository interface {
	Create(ctx context.Context, qa *QuestionAnswer) error
	ListByOwner(ctx context.Context, ownerID string) ([]QuestionAnswer, error)
	Get(ctx context.Context, id, ownerID string) (*QuestionAnswer, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// DefaultTitle 标题为空时的确定性兜底：前 50 字符 + "..."
func DefaultTitle(question string) string {
	r := []rune(question)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return question
}
