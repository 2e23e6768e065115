package extraction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	httpclient "loan-predictor/internal/common/http"
)

// GeminiClient calls the generateContent REST method. The API key travels
// only in the x-goog-api-key header and never appears in errors.
type GeminiClient struct {
	endpoint string
	apiKey   string
	http     *httpclient.Client
}

// NewGeminiClient builds a client. timeout bounds a single call.
func NewGeminiClient(baseURL, model, apiKey string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		endpoint: fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(baseURL, "/"), model),
		apiKey:   apiKey,
		http:     httpclient.NewClient(timeout),
	}
}

func (c *GeminiClient) Endpoint() string { return c.endpoint }

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *GeminiClient) GenerateStructured(ctx context.Context, req GenerateRequest) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: req.Instruction},
				{InlineData: &geminiInlineData{
					MimeType: req.MimeType,
					Data:     base64.StdEncoding.EncodeToString(req.Audio),
				}},
			},
		}},
		GenerationConfig: map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   req.ResponseSchema,
		},
	}

	resp, err := c.http.PostJSON(ctx, c.endpoint, map[string]string{"x-goog-api-key": c.apiKey}, payload)
	if err != nil {
		return "", fmt.Errorf("genai request failed: %w", err)
	}

	if !resp.OK() {
		return "", classify(resp)
	}

	var body geminiResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("decode genai envelope: %w", err)
	}

	// An empty candidate list yields empty text, which the parser rejects.
	var sb strings.Builder
	if len(body.Candidates) > 0 {
		for _, p := range body.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

func classify(resp *httpclient.Response) error {
	var body geminiErrorBody
	_ = json.Unmarshal(resp.Body, &body)

	if resp.StatusCode == http.StatusServiceUnavailable || body.Error.Status == "UNAVAILABLE" {
		msg := body.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", ErrServiceOverloaded, msg)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     body.Error.Status,
		Message:    body.Error.Message,
	}
}
