package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindForbiddenWord(t *testing.T) {
	t.Run("CleanText", func(t *testing.T) {
		word, hit := FindForbiddenWord("обычный текст без запрещённых слов")
		assert.False(t, hit)
		assert.Empty(t, word)
	})

	t.Run("ExactToken", func(t *testing.T) {
		word, hit := FindForbiddenWord("ну кумкват опять")
		assert.True(t, hit)
		assert.Equal(t, "кумкват", word)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		_, hit := FindForbiddenWord("КумКват")
		assert.True(t, hit)
	})

	t.Run("SeparatorsAroundWord", func(t *testing.T) {
		_, hit := FindForbiddenWord("что это,кумкват?!")
		assert.True(t, hit)
	})

	t.Run("SubstringIsNotAMatch", func(t *testing.T) {
		// 整词匹配：作为其他词的一部分不触发过滤
		_, hit := FindForbiddenWord("кумкватовый сад")
		assert.False(t, hit)
	})

	t.Run("SecondWord", func(t *testing.T) {
		word, hit := FindForbiddenWord("бля")
		assert.True(t, hit)
		assert.Equal(t, "бля", word)
	})

	t.Run("EmptyText", func(t *testing.T) {
		_, hit := FindForbiddenWord("")
		assert.False(t, hit)
	})
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("go-news"))
	assert.True(t, IsValidSlug("cats123"))
	assert.False(t, IsValidSlug("Go-News"))
	assert.False(t, IsValidSlug("-lead"))
	assert.False(t, IsValidSlug("tail-"))
	assert.False(t, IsValidSlug("two--dashes"))
	assert.False(t, IsValidSlug(""))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "короткий", TruncateText("короткий", 15))
	assert.Equal(t, "123456789012345", TruncateText("12345678901234567890", 15))
	// 按 rune 截断，不能把多字节字符砍半
	assert.Equal(t, "кумкв", TruncateText("кумкватовый", 5))
}
