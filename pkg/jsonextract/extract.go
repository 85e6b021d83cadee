// Package jsonextract recovers JSON values from free-form model output.
package jsonextract

import (
	"encoding/json"
	"strings"
)

// Extract parses text as JSON. When that fails it falls back to the first
// bracketed span: starting at the leftmost '[' that has a later ']' (or '{'
// with a later '}'), extended greedily to the last matching closer. The
// boolean is false when neither attempt yields valid JSON.
func Extract(text string) (interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v, true
	}

	span, ok := greedySpan(text)
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return nil, false
	}
	return v, true
}

// ExtractObject is Extract restricted to JSON objects.
func ExtractObject(text string) (map[string]interface{}, bool) {
	v, ok := Extract(text)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]interface{})
	return obj, ok
}

// ExtractArray is Extract restricted to JSON arrays.
func ExtractArray(text string) ([]interface{}, bool) {
	v, ok := Extract(text)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]interface{})
	return arr, ok
}

func greedySpan(text string) (string, bool) {
	lastSquare := strings.LastIndexByte(text, ']')
	lastCurly := strings.LastIndexByte(text, '}')

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '[':
			if lastSquare > i {
				return text[i : lastSquare+1], true
			}
		case '{':
			if lastCurly > i {
				return text[i : lastCurly+1], true
			}
		}
	}
	return "", false
}
