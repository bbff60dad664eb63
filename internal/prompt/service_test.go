package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreateVersionsAndDeactivatesOld(t *testing.T) {
	db := initTestDB(t)
	svc := NewService(db)

	v1, err := svc.Create(context.Background(), &CreateTemplateRequest{
		Name:    "privacy_assistant",
		Content: "first version",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Version)
	assert.True(t, v1.IsActive)

	v2, err := svc.Create(context.Background(), &CreateTemplateRequest{
		Name:    "privacy_assistant",
		Content: "second version",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)

	// 旧版本被停用，同名只剩一条活跃记录
	var activeCount int64
	require.NoError(t, db.Model(&PromptTemplate{}).
		Where("name = ? AND is_active = ?", "privacy_assistant", true).
		Count(&activeCount).Error)
	assert.Equal(t, int64(1), activeCount)

	old, err := svc.Get(context.Background(), v1.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
}

func TestServiceUpdateAndDelete(t *testing.T) {
	db := initTestDB(t)
	svc := NewService(db)

	tpl, err := svc.Create(context.Background(), &CreateTemplateRequest{
		Name:     "risk_assistant",
		Content:  "content",
		Category: "Risk",
	})
	require.NoError(t, err)
	assert.Equal(t, "risk", tpl.Category, "分类应归一化为小写")

	content := "updated content"
	updated, err := svc.Update(context.Background(), tpl.ID, &UpdateTemplateRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "updated content", updated.Content)

	require.NoError(t, svc.Delete(context.Background(), tpl.ID))
	_, err = svc.Get(context.Background(), tpl.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestServiceListFilters(t *testing.T) {
	db := initTestDB(t)
	svc := NewService(db)

	_, err := svc.Create(context.Background(), &CreateTemplateRequest{Name: "a", Content: "x", Category: "privacy"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &CreateTemplateRequest{Name: "b", Content: "y", Category: "risk"})
	require.NoError(t, err)

	items, total, err := svc.List(context.Background(), &ListTemplatesRequest{Category: "privacy"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Name)
}
