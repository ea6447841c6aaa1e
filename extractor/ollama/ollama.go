// Package ollama extracts planning requirements with a local Ollama model,
// constraining the reply to the requirement JSON schema.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"mealplanner"
	"mealplanner/extractor"
)

type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
}

type Extractor struct {
	endpoint   string
	model      string
	httpClient mealplanner.HTTPClient
	options    options
}

type Options struct {
	BaseEndpoint string
	ModelID      string
	HTTPClient   mealplanner.HTTPClient
}

func New(opts Options) (*Extractor, error) {
	if strings.TrimSpace(opts.ModelID) == "" {
		return nil, fmt.Errorf("ollama model id is required")
	}
	if strings.TrimSpace(opts.BaseEndpoint) == "" {
		return nil, fmt.Errorf("ollama endpoint is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Extractor{
		model:      opts.ModelID,
		httpClient: opts.HTTPClient,
		endpoint:   strings.TrimRight(opts.BaseEndpoint, "/") + "/api/chat",
		options: options{
			Temperature:   0.2,
			TopP:          0.9,
			RepeatPenalty: 1.05,
			NumCtx:        4096,
		},
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model    string             `json:"model"`
	Messages []wireMessage      `json:"messages"`
	Format   *jsonschema.Schema `json:"format,omitempty"`
	Stream   bool               `json:"stream"`
	Options  options            `json:"options,omitempty"`
}

type wireResponse struct {
	Message wireMessage `json:"message"`
}

func (e *Extractor) Extract(ctx context.Context, text string) (mealplanner.Requirement, error) {
	ctx, span := otel.Tracer(mealplanner.TracerNameOllama).Start(ctx, "Extractor.Extract")
	defer span.End()
	span.SetAttributes(attribute.String("model.id", e.model))

	req, err := e.extract(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return mealplanner.Requirement{}, err
	}
	return req, nil
}

func (e *Extractor) extract(ctx context.Context, text string) (mealplanner.Requirement, error) {
	slog.Info("EXTRACTOR: Invoking Ollama", "model", e.model, "text_len", len(text))

	body, err := json.Marshal(wireRequest{
		Model: e.model,
		Messages: []wireMessage{
			{Role: "system", Content: extractor.SystemPrompt},
			{Role: "user", Content: text},
		},
		Format:  extractor.RequirementSchema(),
		Stream:  false,
		Options: e.options,
	})
	if err != nil {
		return mealplanner.Requirement{}, extractor.Failed(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return mealplanner.Requirement{}, extractor.Failed(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("ollama request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("read ollama response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("ollama: %s: %s", resp.Status, string(respBody)))
	}

	var wr wireResponse
	if err := json.Unmarshal(respBody, &wr); err != nil {
		slog.Warn("EXTRACTOR: Ollama decode failed", "error", err, "body", string(respBody))
		return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("decode ollama response: %w", err))
	}

	slog.Info("EXTRACTOR: Ollama responded", "content_len", len(wr.Message.Content))
	return extractor.DecodeText(wr.Message.Content)
}
