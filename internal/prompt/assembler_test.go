package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// initTestDB 创建内存数据库用于测试
func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:prompt_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&PromptTemplate{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedTemplate(t *testing.T, db *gorm.DB, name, content string, active bool, version int) *PromptTemplate {
	t.Helper()
	tpl := &PromptTemplate{
		ID:       uuid.New().String(),
		Name:     name,
		Content:  content,
		IsActive: active,
		Version:  version,
	}
	require.NoError(t, db.Create(tpl).Error)
	return tpl
}

func TestTemplateNameForType(t *testing.T) {
	cases := map[string]string{
		"privacy":    "privacy_assistant",
		"risk":       "risk_assistant",
		"compliance": "compliance_assistant",
		"audit":      "audit_assistant",
		"incident":   "incident_assistant",
		"vendor":     "vendor_assistant",
		"general":    "general_assistant",
		"":           "general_assistant",
		"PRIVACY":    "privacy_assistant",
		"unknown":    "general_assistant",
	}
	for input, want := range cases {
		assert.Equal(t, want, TemplateNameForType(input), "type=%q", input)
	}
}

func TestAssembleExplicitSystemPromptWins(t *testing.T) {
	db := initTestDB(t)
	a := NewAssembler(db)

	seedTemplate(t, db, "privacy_assistant", "template content", true, 1)

	out, err := a.Assemble(context.Background(), "privacy", "custom system prompt", nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, "custom system prompt", out.SystemPrompt, "显式系统提示词应跳过模板查找")
	assert.Equal(t, "hello", out.UserPrompt)
	assert.Empty(t, out.ContextJSON)
}

func TestAssembleLooksUpTemplateByType(t *testing.T) {
	db := initTestDB(t)
	a := NewAssembler(db)

	seedTemplate(t, db, "risk_assistant", "risk template", true, 1)

	out, err := a.Assemble(context.Background(), "risk", "", nil, "assess this")
	require.NoError(t, err)
	assert.Equal(t, "risk template", out.SystemPrompt)
}

func TestAssemblePicksHighestActiveVersion(t *testing.T) {
	db := initTestDB(t)
	a := NewAssembler(db)

	seedTemplate(t, db, "general_assistant", "v1", true, 1)
	seedTemplate(t, db, "general_assistant", "v3 inactive", false, 3)
	seedTemplate(t, db, "general_assistant", "v2", true, 2)

	out, err := a.Assemble(context.Background(), "general", "", nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "v2", out.SystemPrompt, "应选择活跃模板中版本号最高的一条")
}

func TestAssembleFallbackWhenTemplateMissing(t *testing.T) {
	db := initTestDB(t)
	a := NewAssembler(db)

	out, err := a.Assemble(context.Background(), "audit", "", nil, "hi")
	require.NoError(t, err, "模板缺失不是错误")
	assert.Equal(t, fallbackSystemPrompt, out.SystemPrompt)
}

func TestAssembleUnknownTypeFallsBackToGeneral(t *testing.T) {
	db := initTestDB(t)
	a := NewAssembler(db)

	seedTemplate(t, db, "general_assistant", "general template", true, 1)

	out, err := a.Assemble(context.Background(), "llama-herding", "", nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "general template", out.SystemPrompt)
}

func TestAssembleSerializesContext(t *testing.T) {
	db := initTestDB(t)
	a := NewAssembler(db)

	out, err := a.Assemble(context.Background(), "", "sys", map[string]any{
		"framework": "LGPD",
		"article":   33,
	}, "hi")
	require.NoError(t, err)
	require.NotEmpty(t, out.ContextJSON)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.ContextJSON), &decoded))
	assert.Equal(t, "LGPD", decoded["framework"])
	assert.EqualValues(t, 33, decoded["article"])
}
