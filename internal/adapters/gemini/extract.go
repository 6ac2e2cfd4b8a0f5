package gemini

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedResponse is returned when the body is not JSON at all.
var ErrMalformedResponse = errors.New("gemini: malformed response body")

// textShapes are tried in order; the first that yields non-empty text wins.
var textShapes = []func(any) (string, bool){
	candidateParts,
	candidateOutput,
	topLevelText,
}

// ExtractText pulls the model text out of a generateContent response. Known
// response shapes are tried in order; if none match, the whole JSON document is
// returned as a string so the caller can still inspect it.
func ExtractText(body []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", ErrMalformedResponse
	}

	for _, shape := range textShapes {
		if text, ok := shape(doc); ok {
			return text, nil
		}
	}
	return strings.TrimSpace(string(body)), nil
}

// candidateParts reads candidates[0].content.parts[*].text joined by newlines.
func candidateParts(doc any) (string, bool) {
	cand, ok := firstCandidate(doc)
	if !ok {
		return "", false
	}
	content, ok := cand["content"].(map[string]any)
	if !ok {
		return "", false
	}
	parts, ok := content["parts"].([]any)
	if !ok {
		return "", false
	}

	var texts []string
	for _, p := range parts {
		if pm, ok := p.(map[string]any); ok {
			if t, ok := pm["text"].(string); ok && t != "" {
				texts = append(texts, t)
			}
		}
	}
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, "\n"), true
}

// candidateOutput reads candidates[0].output, used by older model versions.
func candidateOutput(doc any) (string, bool) {
	cand, ok := firstCandidate(doc)
	if !ok {
		return "", false
	}
	t, ok := cand["output"].(string)
	return t, ok && t != ""
}

func topLevelText(doc any) (string, bool) {
	m, ok := doc.(map[string]any)
	if !ok {
		return "", false
	}
	t, ok := m["text"].(string)
	return t, ok && t != ""
}

func firstCandidate(doc any) (map[string]any, bool) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	cands, ok := m["candidates"].([]any)
	if !ok || len(cands) == 0 {
		return nil, false
	}
	cand, ok := cands[0].(map[string]any)
	return cand, ok
}
