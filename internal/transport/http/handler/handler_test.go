package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"qbot-api/internal/core/auth"
	"qbot-api/internal/domain"
	"qbot-api/internal/repo"
	"qbot-api/internal/service"
	"qbot-api/internal/transport/http/handler"
	"qbot-api/internal/transport/http/router"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type stubAnswerer struct {
	answer    string
	title     string
	answerErr error
}

func (s *stubAnswerer) Answer(context.Context, string) (string, error) {
	return s.answer, s.answerErr
}

func (s *stubAnswerer) Title(context.Context, string) (string, error) {
	return s.title, nil
}

func newEngine(t *testing.T, answerer *stubAnswerer) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.QuestionAnswer{}))

	log := zap.NewNop()
	jwter := &auth.JWTer{Secret: []byte("e2e-secret"), Issuer: "qbot-api", TTL: time.Hour}
	authSvc := service.NewAuthService(repo.NewUserRepo(db), jwter, log)
	qnaSvc := service.NewQnaService(repo.NewQnaRepo(db), answerer, nil, log)

	return router.NewAPIEngine(router.Deps{
		Log:   log,
		JWTer: jwter,
		Auth:  handler.NewAuthHandler(authSvc),
		Qna:   handler.NewQnaHandler(qnaSvc),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func register(t *testing.T, r *gin.Engine, name, email, password string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	decode(t, w, &out)
	require.NotEmpty(t, out.Token)
	require.True(t, out.ExpiresAt.After(time.Now()))
	return out.Token
}

func TestEndToEndScenario(t *testing.T) {
	r := newEngine(t, &stubAnswerer{answer: "**4**", title: "Simple Math"})

	register(t, r, "Alice", "alice@example.com", "s3cret1")
	token := login(t, r, "alice@example.com", "s3cret1")

	// ask
	w := doJSON(t, r, http.MethodPost, "/questions/ask", token, gin.H{"question": "What is 2+2?"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.QuestionAnswer
	decode(t, w, &created)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "What is 2+2?", created.Question)
	require.Equal(t, "**4**", created.Answer)
	require.Equal(t, "Simple Math", created.Title)

	// history 有一条
	w = doJSON(t, r, http.MethodGet, "/questions/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []domain.QuestionAnswer
	decode(t, w, &history)
	require.Len(t, history, 1)
	require.Equal(t, created.ID, history[0].ID)

	// 单条读取
	w = doJSON(t, r, http.MethodGet, "/questions/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 删除
	w = doJSON(t, r, http.MethodDelete, "/questions/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 再删报 404
	w = doJSON(t, r, http.MethodDelete, "/questions/"+created.ID, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// history 清空
	w = doJSON(t, r, http.MethodGet, "/questions/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history = nil
	decode(t, w, &history)
	require.Empty(t, history)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	r := newEngine(t, &stubAnswerer{})

	register(t, r, "A", "dup@example.com", "s3cret1")
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "B", "email": "dup@example.com", "password": "s3cret2",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestRegister_PasswordTooLongRejected(t *testing.T) {
	r := newEngine(t, &stubAnswerer{})

	// 超过 bcrypt 72 字节上限：边界直接拒绝，不会注册出登录不了的账号
	long := strings.Repeat("x", 80)
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "A", "email": "long@example.com", "password": long,
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "long@example.com", "password": long,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_InvalidCredentialsUniform(t *testing.T) {
	r := newEngine(t, &stubAnswerer{})
	register(t, r, "A", "a@example.com", "s3cret1")

	unknown := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "whatever",
	})
	wrongPw := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "a@example.com", "password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	// 响应体一字不差，防枚举
	require.JSONEq(t, unknown.Body.String(), wrongPw.Body.String())
}

func TestAuth_MissingOrBadToken(t *testing.T) {
	r := newEngine(t, &stubAnswerer{})

	for _, header := range []string{"", "Basic abc", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/questions/history", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAsk_BlankQuestion(t *testing.T) {
	r := newEngine(t, &stubAnswerer{answer: "x"})
	register(t, r, "A", "a@example.com", "s3cret1")
	token := login(t, r, "a@example.com", "s3cret1")

	w := doJSON(t, r, http.MethodPost, "/questions/ask", token, gin.H{"question": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 没写进任何记录
	h := doJSON(t, r, http.MethodGet, "/questions/history", token, nil)
	var history []domain.QuestionAnswer
	decode(t, h, &history)
	require.Empty(t, history)
}

func TestAsk_UpstreamDown(t *testing.T) {
	r := newEngine(t, &stubAnswerer{answerErr: domain.ErrUpstream})
	register(t, r, "A", "a@example.com", "s3cret1")
	token := login(t, r, "a@example.com", "s3cret1")

	w := doJSON(t, r, http.MethodPost, "/questions/ask", token, gin.H{"question": "q"})
	require.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())
}

func TestAsk_RateLimited(t *testing.T) {
	r := newEngine(t, &stubAnswerer{answer: "a", title: "t"})
	register(t, r, "A", "a@example.com", "s3cret1")
	token := login(t, r, "a@example.com", "s3cret1")

	first := doJSON(t, r, http.MethodPost, "/questions/ask", token, gin.H{"question": "q1"})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, r, http.MethodPost, "/questions/ask", token, gin.H{"question": "q2"})
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	r := newEngine(t, &stubAnswerer{answer: "a", title: "t"})

	register(t, r, "A", "a@example.com", "s3cret1")
	register(t, r, "B", "b@example.com", "s3cret1")
	tokenA := login(t, r, "a@example.com", "s3cret1")
	tokenB := login(t, r, "b@example.com", "s3cret1")

	w := doJSON(t, r, http.MethodPost, "/questions/ask", tokenA, gin.H{"question": "a's question"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.QuestionAnswer
	decode(t, w, &created)

	// B 看 A 的记录：等同不存在
	w = doJSON(t, r, http.MethodGet, "/questions/"+created.ID, tokenB, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/questions/"+created.ID, tokenB, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// B 的 history 不含 A 的记录
	w = doJSON(t, r, http.MethodGet, "/questions/history", tokenB, nil)
	var history []domain.QuestionAnswer
	decode(t, w, &history)
	require.Empty(t, history)

	// A 自己仍然可见
	w = doJSON(t, r, http.MethodGet, "/questions/"+created.ID, tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_NoAuth(t *testing.T) {
	r := newEngine(t, &stubAnswerer{})
	req := httptest.NewRequest(http.MethodGet, "/questions/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"OK"}`, w.Body.String())
}

func TestExpiredTokenRejected(t *testing.T) {
	r := newEngine(t, &stubAnswerer{})

	// 用同一密钥、过去的时钟签发一个已过期令牌
	past := time.Now().Add(-2 * time.Hour)
	expired := &auth.JWTer{
		Secret: []byte("e2e-secret"),
		Issuer: "qbot-api",
		TTL:    time.Hour,
		Now:    func() time.Time { return past },
	}
	tok, _, err := expired.Issue("whoever")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/questions/history", tok, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
