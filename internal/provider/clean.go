package provider

import (
	"regexp"
	"strings"
)

// thinkingBlockRe matches complete reasoning blocks some models emit before
// the answer. Tag variants are listed explicitly; RE2 has no backreferences.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// echoRe matches an introductory phrase ("Here is the translation:") that
// LLMs sometimes prepend even when instructed not to.
var echoRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course)[,.]? )?(?:here(?:'s| is)(?: the)? )?(?:the )?(?:translated text|translation)\s*:`,
)

// cleanOutput strips common LLM artifacts from a chat-backend answer:
// reasoning blocks, instruction echoes, and whole-text quote wrapping.
func cleanOutput(text string) string {
	text = strings.TrimSpace(thinkingBlockRe.ReplaceAllString(text, ""))

	if loc := echoRe.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[loc[1]:])
	}

	return unwrapQuotes(text)
}

// unwrapQuotes removes a matching pair of outer quotes when the entire text
// is wrapped in them.
func unwrapQuotes(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}

	pairs := map[rune]rune{
		'"':      '"',
		'\'':     '\'',
		'«':      '»',
		'“': '”',
		'‘': '’',
	}
	if close, ok := pairs[runes[0]]; ok && runes[n-1] == close {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
