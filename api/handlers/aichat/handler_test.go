package aichat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/ai"
	"backend/internal/auth"
	"backend/internal/prompt"
	"backend/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type chatEnv struct {
	db     *gorm.DB
	jwt    *auth.JWTService
	router *gin.Engine
}

// newChatEnv 搭建完整的对话链路：内存库 + 真实服务 + 路由
func newChatEnv(t *testing.T) *chatEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:aichat_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &provider.AIProvider{}, &prompt.PromptTemplate{}, &ai.AIUsageLog{}))

	jwtSvc := auth.NewJWTService("test-secret", "grc-test", nil)
	authSvc := auth.NewService(db, jwtSvc)

	dispatcher := ai.NewDispatcher(
		provider.NewResolver(db, nil),
		prompt.NewAssembler(db),
		ai.NewUsageRecorder(db, nil),
		nil,
	)

	router := gin.New()
	router.POST("/api/ai/chat", NewHandler(authSvc, dispatcher).Chat)

	return &chatEnv{db: db, jwt: jwtSvc, router: router}
}

// seedUserWithToken 创建带租户档案的用户并签发访问令牌
func (e *chatEnv) seedUserWithToken(t *testing.T, tenantID *string) string {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user := &auth.User{
		ID:           uuid.New().String(),
		Email:        fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		PasswordHash: hash,
		TenantID:     tenantID,
		Role:         "member",
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(user).Error)

	tid := ""
	if tenantID != nil {
		tid = *tenantID
	}
	pair, err := e.jwt.GenerateTokenPair(user.ID, tid, user.Role)
	require.NoError(t, err)
	return pair.AccessToken
}

func (e *chatEnv) seedProvider(t *testing.T, tenantID, endpoint string) {
	t.Helper()
	require.NoError(t, e.db.Create(&provider.AIProvider{
		ID:           uuid.New().String(),
		TenantID:     &tenantID,
		Name:         "tenant-glm",
		ProviderType: "glm",
		Endpoint:     endpoint,
		APIKey:       "sk-test",
		Model:        "glm-4",
		IsActive:     true,
		Priority:     100,
		CreatedAt:    time.Now(),
	}).Error)
}

// postChat 发起对话请求并解析响应体
func (e *chatEnv) postChat(t *testing.T, token string, body map[string]any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w.Code, parsed
}

func newGLMUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "chat reply"}},
			},
			"usage": map[string]any{
				"prompt_tokens":     3,
				"completion_tokens": 4,
				"total_tokens":      7,
			},
		})
	}))
}

func TestChatSuccess(t *testing.T) {
	env := newChatEnv(t)
	upstream := newGLMUpstream(t)
	defer upstream.Close()

	tenantID := uuid.New().String()
	env.seedProvider(t, tenantID, upstream.URL)
	token := env.seedUserWithToken(t, &tenantID)

	code, body := env.postChat(t, token, map[string]any{
		"prompt": "what changed in LGPD article 33?",
		"type":   "privacy",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "chat reply", body["response"])
	assert.NotContains(t, body, "error")

	usage, ok := body["usage"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, usage["total_tokens"])
}

func TestChatUnauthenticatedStillHTTP200(t *testing.T) {
	env := newChatEnv(t)

	// 认证失败也走带内错误通道，HTTP 状态恒为 200
	code, body := env.postChat(t, "", map[string]any{"prompt": "hello"})
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, body, "response")
}

func TestChatInvalidToken(t *testing.T) {
	env := newChatEnv(t)

	code, body := env.postChat(t, "not-a-jwt", map[string]any{"prompt": "hello"})
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["error"])
}

func TestChatUserWithoutTenantProfile(t *testing.T) {
	env := newChatEnv(t)
	token := env.seedUserWithToken(t, nil)

	code, body := env.postChat(t, token, map[string]any{"prompt": "hello"})
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["error"], "租户")
}

func TestChatNoActiveProvider(t *testing.T) {
	env := newChatEnv(t)
	tenantID := uuid.New().String()
	token := env.seedUserWithToken(t, &tenantID)

	code, body := env.postChat(t, token, map[string]any{"prompt": "hello"})
	assert.Equal(t, http.StatusOK, code)
	// 错误信息带可见活跃配置数，便于排查
	assert.Contains(t, body["error"], "0")
}

func TestChatMissingPrompt(t *testing.T) {
	env := newChatEnv(t)
	tenantID := uuid.New().String()
	env.seedProvider(t, tenantID, "https://example.com")
	token := env.seedUserWithToken(t, &tenantID)

	code, body := env.postChat(t, token, map[string]any{"type": "privacy"})
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["error"])
}

func TestChatUpstreamFailureInBand(t *testing.T) {
	env := newChatEnv(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "maintenance window", "type": "server_error"},
		})
	}))
	defer upstream.Close()

	tenantID := uuid.New().String()
	env.seedProvider(t, tenantID, upstream.URL)
	token := env.seedUserWithToken(t, &tenantID)

	code, body := env.postChat(t, token, map[string]any{"prompt": "hello"})
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["error"], "503")

	// 上游失败同样记录用量日志
	var count int64
	require.NoError(t, env.db.Model(&ai.AIUsageLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
