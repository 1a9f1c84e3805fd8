package llm

import "strings"

// CleanJSONBlock strips markdown fences and any prose around the outermost JSON object.
// Models wrap JSON this way even in JSON response mode.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag such as "json" on the opening fence line
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			tag := strings.TrimSpace(text[:idx])
			if !strings.ContainsAny(tag, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start > 0 && end > start {
		return text[start : end+1]
	}
	if start == 0 && end > 0 {
		return text[:end+1]
	}
	return text
}
