package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTranslation_FallbackChain(t *testing.T) {
	content := &Content{
		Type: TypeArticle,
		Translations: []ArticleTranslation{
			{ID: "t-en", Language: "en"},
			{ID: "t-ko", Language: "ko", IsPrimary: true},
			{ID: "t-ja", Language: "ja"},
		},
	}

	// Exact match wins.
	assert.Equal(t, "t-ja", content.ResolveTranslation("ja").ID)
	// Unknown language falls back to the primary.
	assert.Equal(t, "t-ko", content.ResolveTranslation("fr").ID)

	// Without a primary the first translation serves.
	for i := range content.Translations {
		content.Translations[i].IsPrimary = false
	}
	assert.Equal(t, "t-en", content.ResolveTranslation("fr").ID)
}

func TestResolveTranslation_NoTranslations(t *testing.T) {
	content := &Content{Type: TypeArticle}
	assert.Nil(t, content.ResolveTranslation("en"))
}

func TestContentToResponse_LanguageView(t *testing.T) {
	content := &Content{
		ID:   "c1",
		Type: TypeArticle,
		Translations: []ArticleTranslation{
			{ID: "t-en", Language: "en", Title: "Hello"},
			{ID: "t-ko", Language: "ko", Title: "안녕", IsPrimary: true},
		},
	}

	resp := content.ToResponse("en")
	assert.NotNil(t, resp.Translation)
	assert.Equal(t, "Hello", resp.Translation.Title)
	assert.Nil(t, resp.Translations)

	neutral := content.ToResponse("")
	assert.Nil(t, neutral.Translation)
	assert.Len(t, neutral.Translations, 2)
}

func TestTagRefUnmarshal_BareString(t *testing.T) {
	var ref TagRef
	assert.NoError(t, json.Unmarshal([]byte(`"golang"`), &ref))
	assert.Equal(t, "golang", ref.Key)
}

func TestTagRefUnmarshal_Object(t *testing.T) {
	var ref TagRef
	err := json.Unmarshal([]byte(`{"key":"ml","default_label":"Machine Learning","color":"#ff0000"}`), &ref)

	assert.NoError(t, err)
	assert.Equal(t, "ml", ref.Key)
	assert.Equal(t, "Machine Learning", ref.DefaultLabel)
	assert.Equal(t, "#ff0000", ref.Color)
}

func TestTagRefUnmarshal_Mixed(t *testing.T) {
	var refs []TagRef
	err := json.Unmarshal([]byte(`["golang", {"id":"tag-1"}]`), &refs)

	assert.NoError(t, err)
	assert.Len(t, refs, 2)
	assert.Equal(t, "golang", refs[0].Key)
	assert.Equal(t, "tag-1", refs[1].ID)
}

func TestTagToResponse_LocalizedLabel(t *testing.T) {
	tag := &Tag{
		Key:          "golang",
		DefaultLabel: "Go",
		Labels: []TagLabel{
			{Language: "ko", Label: "고"},
		},
	}

	assert.Equal(t, "고", tag.ToResponse("ko").Label)
	// Missing language falls back to the default label.
	assert.Equal(t, "Go", tag.ToResponse("ja").Label)
	// Neutral view carries no localized label.
	assert.Empty(t, tag.ToResponse("").Label)
}

func TestStringList_RoundTrip(t *testing.T) {
	list := StringList{"content.created", "translation.reverted"}

	value, err := list.Value()
	assert.NoError(t, err)

	var scanned StringList
	assert.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)
	assert.True(t, scanned.Contains("content.created"))
	assert.False(t, scanned.Contains("content.deleted"))
}

func TestUserPassword(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.SetPassword("hunter2!"))

	assert.True(t, u.CheckPassword("hunter2!"))
	assert.False(t, u.CheckPassword("hunter3!"))
	assert.NotEqual(t, "hunter2!", u.PasswordHash)
}
