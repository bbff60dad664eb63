package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// 业务类型到模板名的固定映射
// 未知类型回退到 general
var typeTemplateNames = map[string]string{
	"privacy":    "privacy_assistant",
	"risk":       "risk_assistant",
	"compliance": "compliance_assistant",
	"audit":      "audit_assistant",
	"incident":   "incident_assistant",
	"vendor":     "vendor_assistant",
	"general":    "general_assistant",
}

const defaultPromptType = "general"

// fallbackSystemPrompt 模板缺失时的兜底系统提示词
// 保证流程总能拿到一个系统提示词，模板缺失不是错误
const fallbackSystemPrompt = "You are an experienced governance, risk and compliance assistant. " +
	"Answer precisely, cite the applicable regulation when relevant, and say so when you are unsure."

// Assembled 组装完成的提示词三元组，与提供方协议无关
type Assembled struct {
	SystemPrompt string
	UserPrompt   string
	ContextJSON  string // 为空表示无附加上下文
}

// Assembler 提示词组装器
type Assembler struct {
	db *gorm.DB
}

// NewAssembler 创建提示词组装器
func NewAssembler(db *gorm.DB) *Assembler {
	return &Assembler{db: db}
}

// TemplateNameForType 返回业务类型对应的模板名
func TemplateNameForType(promptType string) string {
	key := strings.ToLower(strings.TrimSpace(promptType))
	if key == "" {
		key = defaultPromptType
	}
	name, ok := typeTemplateNames[key]
	if !ok {
		name = typeTemplateNames[defaultPromptType]
	}
	return name
}

// Assemble 组装最终提示词
// 规则：
//   - 显式 systemPrompt 覆盖一切，不做模板查找
//   - 否则按类型映射查活跃模板，模板缺失时使用兜底提示词，永不报错
//   - context 序列化为 JSON 交由适配器按协议拼接
func (a *Assembler) Assemble(ctx context.Context, promptType, systemPrompt string, contextData map[string]any, userPrompt string) (*Assembled, error) {
	out := &Assembled{UserPrompt: userPrompt}

	if strings.TrimSpace(systemPrompt) != "" {
		out.SystemPrompt = systemPrompt
	} else {
		content, err := a.lookupTemplate(ctx, TemplateNameForType(promptType))
		if err != nil {
			return nil, err
		}
		out.SystemPrompt = content
	}

	if len(contextData) > 0 {
		raw, err := json.Marshal(contextData)
		if err != nil {
			return nil, fmt.Errorf("序列化上下文失败: %w", err)
		}
		out.ContextJSON = string(raw)
	}

	return out, nil
}

// lookupTemplate 查询活跃模板内容，缺失时返回兜底提示词
func (a *Assembler) lookupTemplate(ctx context.Context, name string) (string, error) {
	var tpl PromptTemplate
	err := a.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		Order("version DESC, created_at DESC").
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fallbackSystemPrompt, nil
		}
		return "", fmt.Errorf("查询提示词模板失败: %w", err)
	}
	return tpl.Content, nil
}
