package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qbot-api/internal/service"
	mdw "qbot-api/internal/transport/http/middleware"
	resp "qbot-api/internal/transport/http/response"
)

type QnaHandler struct {
	qna *service.QnaService
}

func NewQnaHandler(qna *service.QnaService) *QnaHandler {
	return &QnaHandler{qna: qna}
}

type askIn struct {
	Question string `json:"question" binding:"required"`
}

func (h *QnaHandler) Ask(c *gin.Context) {
	var in askIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "question is required")
		return
	}
	qa, err := h.qna.Ask(c.Request.Context(), c.GetString(mdw.KeyUserID), in.Question)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, qa)
}

func (h *QnaHandler) History(c *gin.Context) {
	items, err := h.qna.History(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, items)
}

func (h *QnaHandler) Get(c *gin.Context) {
	qa, err := h.qna.Get(c.Request.Context(), c.GetString(mdw.KeyUserID), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, qa)
}

func (h *QnaHandler) Delete(c *gin.Context) {
	if err := h.qna.Delete(c.Request.Context(), c.GetString(mdw.KeyUserID), c.Param("id")); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "question deleted"})
}

func (h *QnaHandler) Health(c *gin.Context) {
	resp.OK(c, gin.H{"status": "OK"})
}
