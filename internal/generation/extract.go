package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"forgefit/coach-engine/internal/domain"
)

// ParseArtifact recovers a structured program from raw generator text. The
// service frequently wraps its JSON in prose or markdown fences; the first
// balanced JSON object in the text is extracted before a parse failure is
// declared. Shape and domain checks are the validator's job, not this one's.
func ParseArtifact(raw string) (*domain.TrainingProgram, error) {
	jsonStr := FirstJSONObject(stripFences(raw))
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrMalformedOutput)
	}

	var program domain.TrainingProgram
	if err := json.Unmarshal([]byte(jsonStr), &program); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return &program, nil
}

// stripFences drops markdown code-fence lines so a fenced block's content
// survives intact.
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// FirstJSONObject returns the first balanced { ... } block in the text,
// tracking string literals and escapes so braces inside values don't count.
// Returns "" when no balanced object exists.
func FirstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
