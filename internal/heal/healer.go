package heal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"queuay-worker/internal/models"
)

// ErrHealGenerationFailed wraps AI API failures.
var ErrHealGenerationFailed = errors.New("heal generation failed")

const healingPrompt = `You are an expert at diagnosing and fixing failing browser tests.

Given:
1. The failing test step
2. The error message
3. The current page HTML (partial)
4. A screenshot of the current state (if provided)

Analyze the failure and propose a fix. Common issues:
- Selector changed (element structure modified)
- Timing issue (element not ready)
- Content changed (text different)
- Flow changed (navigation different)

Respond in JSON format:
{
  "type": "selector|flow|content",
  "original": "the original step that failed",
  "proposed": "the proposed fix",
  "line": line_number,
  "confidence": 0.0-1.0,
  "reasoning": "explanation of the fix"
}`

const inspectionPrompt = `You are a visual QA inspector analyzing a screenshot of a web application.

Given an expected state description, analyze the screenshot and determine if the expectation is met.

Respond in JSON format:
{
  "passed": boolean,
  "confidence": "high|medium|low",
  "observation": "what you actually see",
  "issues": ["issue1", "issue2"] (if any)
}

Be precise and objective. If you cannot determine the state with high confidence, indicate so.`

// Maximum page HTML passed to the model.
const maxDOMChars = 5000

// InspectionResult is the structured verdict of a screenshot inspection.
type InspectionResult struct {
	Passed      bool     `json:"passed"`
	Confidence  string   `json:"confidence"`
	Observation string   `json:"observation"`
	Issues      []string `json:"issues,omitempty"`
}

// Service is the AI diagnostic capability. Both methods may fail or return
// unusable output; callers degrade to "no proposal" / skip.
type Service interface {
	// ProposeHeal asks for a structured fix for a failing step. Returns
	// (nil, nil) when the response cannot be parsed.
	ProposeHeal(ctx context.Context, fragment, errMsg, dom string, screenshotPNG []byte) (*models.HealProposal, error)
	// InspectScreenshot evaluates a visual expectation against a screenshot.
	InspectScreenshot(ctx context.Context, screenshotPNG []byte, expectation string, consoleErrors []string) (*InspectionResult, error)
}

type openAIHealService struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

// NewService creates a heal service backed by an OpenAI-compatible API.
func NewService(apiKey, baseURL, model string, httpClient *http.Client, log *zap.Logger) Service {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &openAIHealService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log.Named("heal"),
	}
}

func (s *openAIHealService) ProposeHeal(ctx context.Context, fragment, errMsg, dom string, screenshotPNG []byte) (*models.HealProposal, error) {
	if len(dom) > maxDOMChars {
		dom = dom[:maxDOMChars]
	}

	textPrompt := fmt.Sprintf("Failing test step:\n```json\n%s\n```\n\nError message:\n%s\n\nPage HTML (truncated):\n```html\n%s\n```",
		fragment, errMsg, dom)

	userMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(screenshotPNG) > 0 {
		userMsg.MultiContent = []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(screenshotPNG),
				},
			},
			{Type: openai.ChatMessagePartTypeText, Text: textPrompt},
		}
	} else {
		userMsg.Content = textPrompt
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: 2048,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: healingPrompt},
			userMsg,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHealGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrHealGenerationFailed)
	}

	var proposal models.HealProposal
	if err := json.Unmarshal([]byte(extractJSON(resp.Choices[0].Message.Content)), &proposal); err != nil {
		s.log.Warn("heal response not parseable, discarding", zap.Error(err))
		return nil, nil
	}
	return &proposal, nil
}

func (s *openAIHealService) InspectScreenshot(ctx context.Context, screenshotPNG []byte, expectation string, consoleErrors []string) (*InspectionResult, error) {
	text := fmt.Sprintf("Expected state: %q", expectation)
	if len(consoleErrors) > 0 {
		text += "\n\nConsole errors detected:\n" + strings.Join(consoleErrors, "\n")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: 1024,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: inspectionPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(screenshotPNG),
						},
					},
					{Type: openai.ChatMessagePartTypeText, Text: text},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHealGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrHealGenerationFailed)
	}

	var result InspectionResult
	if err := json.Unmarshal([]byte(extractJSON(resp.Choices[0].Message.Content)), &result); err != nil {
		return nil, fmt.Errorf("%w: unparseable inspection result: %v", ErrHealGenerationFailed, err)
	}
	return &result, nil
}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedRe     = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// extractJSON pulls the JSON body out of a model response, tolerating fenced
// code blocks around it.
func extractJSON(s string) string {
	if m := fencedJSONRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := fencedRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return strings.TrimSpace(s)
}
