// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
parser.go - Model Response Parsing

Model text is parsed with a ladder of increasingly aggressive fallbacks. The
first step that yields valid JSON wins:

 1. The whole response, or the body of a ``` fenced block when present.
 2. The first object containing "recommendations", up to its matching brace.
 3. Targeted repairs for a known model defect: a duplicated "score" field,
    and a stray quote after a numeric score.
 4. Aggressive collapse of duplicate fields and trailing commas.

Valid JSON of the wrong shape is a schema error and is not repaired further.
The step that succeeded is counted in ai_response_parse_total.
*/

//nolint:staticcheck // File documentation, not package doc
package ai

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shortlist/internal/metrics"
	"github.com/tomtom215/shortlist/internal/models"
)

var (
	// ErrUnparseable means no repair step produced valid JSON.
	ErrUnparseable = errors.New("response is not valid JSON")

	// ErrSchema means the JSON lacks a recommendations array of the expected shape.
	ErrSchema = errors.New("response does not match the recommendations schema")
)

// Parse step labels.
const (
	stepDirect        = "direct"
	stepFenced        = "fenced"
	stepObject        = "object"
	stepScoreRepair   = "score_repair"
	stepFieldCollapse = "field_collapse"
	stepFailed        = "failed"
)

var (
	fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

	// "score": 85, "score": 90  ->  "score": 85
	duplicateScore = regexp.MustCompile(`("score"\s*:\s*-?\d+(?:\.\d+)?)\s*,?\s*"score"\s*:\s*-?\d+(?:\.\d+)?`)
	// "score": 85"  ->  "score": 85
	strayScoreQuote = regexp.MustCompile(`("score"\s*:\s*-?\d+(?:\.\d+)?)"`)

	flatObject    = regexp.MustCompile(`\{[^{}\[\]]*\}`)
	scalarField   = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"\s*:\s*("(?:[^"\\]|\\.)*"|-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?|true|false|null)`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// Ranked is one entry of the model's answer before it is joined to the
// shortlist.
type Ranked struct {
	ItemCode ItemCode `json:"itemCode"`
	Reason   string   `json:"reason"`
	Score    float64  `json:"score"`
}

// ItemCode accepts a JSON string or number. Models sometimes drop the quotes
// around numeric ids; the digits are kept verbatim.
type ItemCode string

// UnmarshalJSON implements json.Unmarshaler.
func (c *ItemCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ItemCode(strings.TrimSpace(s))
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("itemCode must be a string or number, got %s", data)
	}
	*c = ItemCode(data)
	return nil
}

type rankedResponse struct {
	Recommendations *[]Ranked `json:"recommendations"`
}

// ParseResponse extracts the ranked entries from model text.
func ParseResponse(text string) ([]Ranked, error) {
	recs, step, err := parse(text)
	metrics.AIParseRepairs.WithLabelValues(step).Inc()
	return recs, err
}

func parse(text string) ([]Ranked, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, stepFailed, ErrUnparseable
	}

	body, step := text, stepDirect
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		body, step = strings.TrimSpace(m[1]), stepFenced
	}
	if recs, done, err := decode(body); done {
		return recs, stepOrFailed(step, err), err
	}

	obj, ok := extractObject(body)
	if !ok && body != text {
		obj, ok = extractObject(text)
	}
	if ok {
		if recs, done, err := decode(obj); done {
			return recs, stepOrFailed(stepObject, err), err
		}
	} else {
		obj = body
	}

	repaired := strayScoreQuote.ReplaceAllString(duplicateScore.ReplaceAllString(obj, "${1}"), "${1}")
	if repaired != obj {
		if recs, done, err := decode(repaired); done {
			return recs, stepOrFailed(stepScoreRepair, err), err
		}
	}

	if recs, done, err := decode(collapseDuplicateFields(repaired)); done {
		return recs, stepOrFailed(stepFieldCollapse, err), err
	}
	return nil, stepFailed, ErrUnparseable
}

// decode reports done once s is valid JSON, whether or not it has the
// expected shape.
func decode(s string) ([]Ranked, bool, error) {
	data := []byte(s)
	if !json.Valid(data) {
		return nil, false, nil
	}
	var resp rankedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if resp.Recommendations == nil {
		return nil, true, fmt.Errorf("%w: missing recommendations array", ErrSchema)
	}
	return *resp.Recommendations, true, nil
}

func stepOrFailed(step string, err error) string {
	if err != nil {
		return stepFailed
	}
	return step
}

// extractObject returns the innermost object that opens before the first
// "recommendations" key, through its matching brace. A truncated or
// unbalanced object falls back to the last closing brace in s.
func extractObject(s string) (string, bool) {
	idx := strings.Index(s, `"recommendations"`)
	if idx < 0 {
		return "", false
	}
	start := strings.LastIndexByte(s[:idx], '{')
	if start < 0 {
		return "", false
	}
	end := matchBrace(s, start)
	if end < 0 {
		end = strings.LastIndexByte(s, '}')
		if end < idx {
			return "", false
		}
	}
	return s[start : end+1], true
}

// matchBrace returns the index of the brace closing the one at start, or -1.
// Braces inside string literals are ignored.
func matchBrace(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// collapseDuplicateFields rebuilds every flat object from its scalar fields,
// keeping the first occurrence of each key, and drops trailing commas.
// Anything between fields that is not a key/value pair is discarded.
func collapseDuplicateFields(s string) string {
	s = flatObject.ReplaceAllStringFunc(s, func(obj string) string {
		fields := scalarField.FindAllStringSubmatch(obj, -1)
		if len(fields) == 0 {
			return obj
		}
		seen := make(map[string]struct{}, len(fields))
		kept := make([]string, 0, len(fields))
		for _, f := range fields {
			if _, dup := seen[f[1]]; dup {
				continue
			}
			seen[f[1]] = struct{}{}
			kept = append(kept, f[0])
		}
		return "{" + strings.Join(kept, ",") + "}"
	})
	return trailingComma.ReplaceAllString(s, "${1}")
}

// Join resolves ranked entries against the shortlist, in ranked order.
// Entries naming an item outside the shortlist are dropped, as are repeats
// of an item already joined. At most limit entries are returned; limit <= 0
// means no limit. Scores are clamped to [0, 100].
//
//nolint:gocritic // rangeValCopy: Product passed by value in range, acceptable for clarity
func Join(ranked []Ranked, shortlist []models.Product, limit int) []models.Recommendation {
	byID := make(map[string]models.Product, len(shortlist))
	for _, p := range shortlist {
		byID[p.ItemID] = p
	}

	out := make([]models.Recommendation, 0, len(ranked))
	used := make(map[string]struct{}, len(ranked))
	for _, r := range ranked {
		if limit > 0 && len(out) >= limit {
			break
		}
		code := string(r.ItemCode)
		p, ok := byID[code]
		if !ok {
			continue
		}
		if _, dup := used[code]; dup {
			continue
		}
		used[code] = struct{}{}
		out = append(out, models.Recommendation{
			ItemCode: code,
			Reason:   strings.TrimSpace(r.Reason),
			Score:    min(max(r.Score, 0), 100),
			Product:  p,
		})
	}
	return out
}
