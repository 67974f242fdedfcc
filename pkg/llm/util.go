package llm

import "strings"

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, from a model reply.
func StripCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.TrimPrefix(cleaned, "```")
	if idx := strings.Index(cleaned, "\n"); idx >= 0 {
		tag := cleaned[:idx]
		if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			cleaned = cleaned[idx+1:]
		}
	}
	if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[:idx]
	}

	cleaned = strings.TrimSpace(cleaned)
	return cleaned
}

// TruncateRunes cuts s to at most limit runes.
func TruncateRunes(s string, limit int) (out string) {
	out = s
	if limit <= 0 {
		return out
	}
	runes := []rune(s)
	if len(runes) > limit {
		out = string(runes[:limit])
	}
	return out
}

// CountWords counts whitespace separated words.
func CountWords(text string) (n int) {
	n = len(strings.Fields(text))
	return n
}
