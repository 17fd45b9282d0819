package util

import (
	"strings"
)

// forbiddenWords 评论屏蔽词表（整词匹配，不做子串匹配）
var forbiddenWords = []string{
	"бля",
	"кумкват",
}

// separatingSymbols 分词前归一化为空格的标点集合
const separatingSymbols = `.,/;:!?"`

// FindForbiddenWord 对文本做屏蔽词检查：小写化、标点归一化为空格、按空白分词后
// 与词表逐词比对。命中返回命中的词，未命中返回空串。
// 词表中的词作为更长单词的子串出现时不算命中。
func FindForbiddenWord(text string) (string, bool) {
	normalized := strings.ToLower(text)
	for _, char := range separatingSymbols {
		normalized = strings.ReplaceAll(normalized, string(char), " ")
	}

	tokens := strings.Fields(normalized)
	for _, token := range tokens {
		for _, word := range forbiddenWords {
			if token == word {
				return word, true
			}
		}
	}
	return "", false
}
