package main

import "fmt"

// TokenInfo carries the token counts of a single classifier call. Counts are
// estimated from the exact prompt and response text so they stay consistent
// even when the backend fails mid-call.
type TokenInfo struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// SessionTokens accumulates token usage across all classification calls in
// one session. It is owned by the session and mutated in place; there is a
// single logical thread of control, so no locking is needed.
type SessionTokens struct {
	TotalInputTokens  int
	TotalOutputTokens int
	TotalTokens       int
	RequestCount      int
}

// Track records one completed classification call, success or error.
func (s *SessionTokens) Track(info TokenInfo) {
	s.TotalInputTokens += info.InputTokens
	s.TotalOutputTokens += info.OutputTokens
	s.TotalTokens += info.TotalTokens
	s.RequestCount++
}

// Summary renders the end-of-session report printed when the operator exits.
func (s *SessionTokens) Summary() string {
	return fmt.Sprintf(
		"SESSION TOKEN SUMMARY\n"+
			"==============================\n"+
			"Total Requests: %d\n"+
			"Total Input Tokens: %d\n"+
			"Total Output Tokens: %d\n"+
			"Total Tokens: %d",
		s.RequestCount, s.TotalInputTokens, s.TotalOutputTokens, s.TotalTokens,
	)
}

// countTokens estimates the token count of text at roughly four characters
// per token. The estimate is deterministic, which matters more here than
// tokenizer-exact counts: the same prompt always books the same amount.
func countTokens(text string) int {
	return len(text) / 4
}
