package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"

// classifySystemPrompt is the fixed instruction set sent with every request.
// It enumerates the nine intents, their required parameters, and a handful of
// few-shot examples. Dates always come back as YYYY-MM-DD; month/year-only
// references expand to the first and last day of the period.
const classifySystemPrompt = `You classify HR document requests into one of these intents:
1) PAYSLIP_SELF {fromDate, toDate}
2) PAYSLIP_ON_BEHALF {employeeNumber, fromDate, toDate}
3) PAYSLIP_BY_NAME {employeeName, fromDate, toDate} - when employee name is provided instead of number
4) T4_SELF {year}
5) T4_ON_BEHALF {employeeNumber, year}
6) T4_BY_NAME {employeeName, year} - when employee name is provided instead of number
7) T4A_SELF {year}
8) T4A_ON_BEHALF {employeeNumber, year}
9) T4A_BY_NAME {employeeName, year} - when employee name is provided instead of number

Return JSON with: {"intent": "...", "parameters": {...}, "missing": [...]}

Examples:
- "Provide my paystub for March 2022" -> {"intent": "PAYSLIP_SELF", "parameters": {"fromDate": "2022-03-01", "toDate": "2022-03-31"}, "missing": []}
- "Get T4 for employee 556677 for 2023" -> {"intent": "T4_ON_BEHALF", "parameters": {"employeeNumber": "556677", "year": 2023}, "missing": []}
- "Get paystub for Alex Martin from January 2022" -> {"intent": "PAYSLIP_BY_NAME", "parameters": {"employeeName": "Alex Martin", "fromDate": "2022-01-01", "toDate": "2022-01-31"}, "missing": []}
- "I need my T4 form" -> {"intent": "T4_SELF", "parameters": {}, "missing": ["year"]}

If information is missing, list it in the "missing" array and ask for clarification.
Always extract dates in YYYY-MM-DD format. For month/year only requests, use first and last day of that period.
Use BY_NAME intents when a person's name (like "Alex", "John Smith", etc.) is mentioned instead of an employee number.

Respond with JSON only (no markdown).`

// classifyFn is swapped out in tests to avoid live backend calls.
var classifyFn = ClassifyRequest

// ClassifyRequest classifies one free-text request into a typed intent with
// extracted parameters. It issues exactly one backend call. Backend faults,
// empty responses, and unparseable responses all come back as an ERROR
// classification with a diagnostic message; they never propagate as Go
// errors, so the session loop and the token ledger stay consistent.
func ClassifyRequest(cfg Config, userRequest, currentUserEmployeeNumber string) Classification {
	inputTokens := countTokens(classifySystemPrompt + "\n" + userRequest)

	var responseText string
	var callErr error

	switch cfg.LLMProvider {
	case "openai":
		model := cfg.LLMModel
		if model == "" {
			model = defaultOpenAIModel
		}
		log.Printf("llm classify provider=openai model=%s", model)
		responseText, callErr = callOpenAI(cfg.OpenAIAPIKey, model, classifySystemPrompt, userRequest)
	default:
		model := cfg.LLMModel
		if model == "" {
			model = defaultAnthropicModel
		}
		log.Printf("llm classify provider=anthropic model=%s", model)
		responseText, callErr = callAnthropic(cfg.AnthropicAPIKey, model, classifySystemPrompt, userRequest)
	}

	if callErr != nil {
		return errorClassification(
			fmt.Sprintf("classification failed: %v", callErr),
			TokenInfo{InputTokens: inputTokens, TotalTokens: inputTokens},
		)
	}

	outputTokens := countTokens(responseText)
	info := TokenInfo{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  inputTokens + outputTokens,
	}
	log.Printf("llm classify response size=%d tokens_in=%d tokens_out=%d", len(responseText), info.InputTokens, info.OutputTokens)

	if strings.TrimSpace(responseText) == "" {
		return errorClassification("backend returned empty response",
			TokenInfo{InputTokens: inputTokens, TotalTokens: inputTokens})
	}

	result, err := parseClassification(responseText)
	if err != nil {
		return errorClassification(err.Error(),
			TokenInfo{InputTokens: inputTokens, TotalTokens: inputTokens})
	}
	result.TokenInfo = info

	injectSelfEmployeeNumber(&result, currentUserEmployeeNumber)
	return result
}

// errorClassification builds the ERROR result shape: message set, parameters
// empty, token info still valid so the ledger can book the attempt.
func errorClassification(msg string, info TokenInfo) Classification {
	return Classification{
		Intent:     IntentError,
		Parameters: map[string]any{},
		Missing:    []string{},
		Error:      msg,
		TokenInfo:  info,
	}
}

// parseClassification strips an optional markdown code fence and parses the
// backend response into a Classification.
func parseClassification(responseText string) (Classification, error) {
	cleaned := strings.TrimSpace(responseText)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result Classification
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		truncated := cleaned
		if len(truncated) > 512 {
			truncated = truncated[:512] + "..."
		}
		return Classification{}, fmt.Errorf("parsing classification response: %w (response: %s)", err, truncated)
	}
	if result.Parameters == nil {
		result.Parameters = map[string]any{}
	}
	if result.Missing == nil {
		result.Missing = []string{}
	}
	return result, nil
}

// injectSelfEmployeeNumber fills in the current operator's employee number on
// _SELF intents. It overrides anything the model put in that field.
func injectSelfEmployeeNumber(result *Classification, currentUserEmployeeNumber string) {
	if currentUserEmployeeNumber == "" || !strings.HasSuffix(result.Intent, "_SELF") {
		return
	}
	result.Parameters["employeeNumber"] = currentUserEmployeeNumber
}

// --- Anthropic ---

func callAnthropic(apiKey, model, systemPrompt, userPrompt string) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 500,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}

// --- OpenAI ---

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func callOpenAI(apiKey, model, systemPrompt, userPrompt string) (string, error) {
	reqBody := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
		MaxTokens:   500,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("llm openai error: %v", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return "", fmt.Errorf("parsing OpenAI response: %w", err)
	}

	if openAIResp.Error != nil {
		log.Printf("llm openai api error: %s", openAIResp.Error.Message)
		return "", fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return openAIResp.Choices[0].Message.Content, nil
}
