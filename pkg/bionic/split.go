// Package bionic 实现仿生阅读的单词拆分与纯文本渲染
package bionic

import "unicode/utf8"

// Split 将单词拆分为强调前缀和普通后缀
// 拆分点为 ceil(n/2)，n 按 Unicode 码点计数，保证不会切开多字节字符。
// 未合成的组合字符（如 "e\u0301"）按两个码点计数，可能与基字符分开；
// 调用方应先做 NFC 规范化，RenderPlain 已经这样处理
func Split(word string) (prefix, suffix string) {
	n := utf8.RuneCountInString(word)
	if n == 0 {
		return "", ""
	}
	mid := (n + 1) / 2

	// 找到第 mid 个码点的字节偏移
	i := 0
	for offset := range word {
		if i == mid {
			return word[:offset], word[offset:]
		}
		i++
	}
	return word, ""
}
