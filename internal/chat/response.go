// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// Kind names the payload shape a completion response was decoded from.
type Kind int

// Response shapes in decode order.
const (
	KindOutputText Kind = iota
	KindChoiceText
	KindMessageContent
	KindResult
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindOutputText:
		return "output_text"
	case KindChoiceText:
		return "choice_text"
	case KindMessageContent:
		return "message_content"
	case KindResult:
		return "result"
	default:
		return "raw"
	}
}

// Response is a decoded completion payload.
type Response struct {
	Kind Kind
	Text string
}

// ErrInvalidPayload is returned when a response body is not JSON.
var ErrInvalidPayload = errors.New("chat: response is not valid JSON")

type payload struct {
	OutputText json.RawMessage `json:"output_text"`
	Choices    json.RawMessage `json:"choices"`
	Result     json.RawMessage `json:"result"`
}

type choice struct {
	Text    json.RawMessage `json:"text"`
	Message *struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// Decode matches body against the known completion shapes in order:
// output_text, choices[0].text, choices[0].message.content, result and
// finally the compacted payload itself. Only truthy values match. Once a
// first choice is present the result field is not consulted.
func Decode(body []byte) (Response, error) {
	if !json.Valid(body) {
		return Response{}, ErrInvalidPayload
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		// Valid JSON that is not an object.
		return Response{Kind: KindRaw, Text: compact(body)}, nil
	}

	if truthy(p.OutputText) {
		return Response{Kind: KindOutputText, Text: text(p.OutputText)}, nil
	}

	if truthy(p.Choices) {
		var choices []json.RawMessage
		if err := json.Unmarshal(p.Choices, &choices); err == nil && len(choices) > 0 && truthy(choices[0]) {
			var c choice
			_ = json.Unmarshal(choices[0], &c)
			if truthy(c.Text) {
				return Response{Kind: KindChoiceText, Text: text(c.Text)}, nil
			}
			var content string
			if c.Message != nil && truthy(c.Message.Content) {
				content = text(c.Message.Content)
			}
			return Response{Kind: KindMessageContent, Text: content}, nil
		}
	}

	if truthy(p.Result) {
		return Response{Kind: KindResult, Text: text(p.Result)}, nil
	}

	return Response{Kind: KindRaw, Text: compact(body)}, nil
}

// truthy reports whether a JSON value is present and not null, false, 0 or "".
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", `""`:
		return false
	}
	if f, err := strconv.ParseFloat(string(v), 64); err == nil {
		return f != 0
	}
	return true
}

// text returns a JSON string's contents or the raw JSON of any other value.
func text(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return compact(raw)
}

func compact(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
