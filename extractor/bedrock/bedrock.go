// Package bedrock extracts planning requirements with the Bedrock Converse
// API, forcing the model to answer through a single tool whose input is the
// requirement object.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"mealplanner"
	"mealplanner/extractor"
)

const (
	// defaultModelID is an inference profile ID, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	// The requirement object is tiny; 1k leaves plenty of headroom.
	defaultMaxTokens = 1024

	// Low temperature and top_p keep structured output consistent.
	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type Options struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Extractor struct {
	brc  bedrockRuntimeClient
	opts Options
}

func New(brc bedrockRuntimeClient, opts Options) *Extractor {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Extractor{brc: brc, opts: opts}
}

func (e *Extractor) Extract(ctx context.Context, text string) (mealplanner.Requirement, error) {
	ctx, span := otel.Tracer(mealplanner.TracerNameBedrock).Start(ctx, "Extractor.Extract")
	defer span.End()
	span.SetAttributes(attribute.String("model.id", e.opts.ModelID))

	req, err := e.extract(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return mealplanner.Requirement{}, err
	}
	return req, nil
}

func (e *Extractor) extract(ctx context.Context, text string) (mealplanner.Requirement, error) {
	slog.Info("EXTRACTOR: Invoking Bedrock", "model_id", e.opts.ModelID, "text_len", len(text))

	spec, err := buildToolSpec(extractor.ToolName, "Record the user's meal planning requirement.", extractor.RequirementSchema())
	if err != nil {
		return mealplanner.Requirement{}, extractor.Failed(err)
	}

	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(e.opts.ModelID),
		System:  []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: extractor.SystemPrompt}},
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: text}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(e.opts.MaxTokens),
			Temperature: aws.Float32(e.opts.Temperature),
			TopP:        aws.Float32(e.opts.TopP),
		},
		ToolConfig: &types.ToolConfiguration{
			Tools: []types.Tool{&types.ToolMemberToolSpec{Value: spec}},
			ToolChoice: &types.ToolChoiceMemberTool{
				Value: types.SpecificToolChoice{Name: aws.String(extractor.ToolName)},
			},
		},
	}

	out, err := e.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("EXTRACTOR: Bedrock invoke failed", "error", err)
		return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("bedrock converse: %w", err))
	}

	attrs := []any{"stop_reason", out.StopReason}
	if out.Usage != nil {
		attrs = append(attrs,
			"input_tokens", aws.ToInt32(out.Usage.InputTokens),
			"output_tokens", aws.ToInt32(out.Usage.OutputTokens))
	}
	if out.Metrics != nil {
		attrs = append(attrs, "latency_ms", aws.ToInt64(out.Metrics.LatencyMs))
	}
	slog.Info("EXTRACTOR: Bedrock invoke succeeded", attrs...)

	switch out.StopReason {
	case types.StopReasonMaxTokens:
		return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("model hit MaxTokens limit"))
	case types.StopReasonContentFiltered, types.StopReasonGuardrailIntervened:
		return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("model response blocked by Bedrock safety filters"))
	}

	if input, ok, err := toolInputFromOutput(out); err != nil {
		return mealplanner.Requirement{}, extractor.Failed(err)
	} else if ok {
		return extractor.Decode(input)
	}

	// Some models answer in text despite the forced tool.
	txt := textFromOutput(out)
	if txt == "" {
		return mealplanner.Requirement{}, extractor.Failed(fmt.Errorf("model returned neither a tool call nor text"))
	}
	slog.Warn("EXTRACTOR: No tool call in Bedrock output, decoding text", "text_len", len(txt))
	return extractor.DecodeText(txt)
}

// buildToolSpec constructs a ToolSpecification for the requirement tool.
func buildToolSpec(name, description string, schema *jsonschema.Schema) (types.ToolSpecification, error) {
	// Round-trip through JSON so the document carries the schema's own encoding.
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to marshal tool schema for %s: %w", name, err)
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to unmarshal tool schema for %s: %w", name, err)
	}

	return types.ToolSpecification{
		Name:        aws.String(name),
		Description: aws.String(description),
		InputSchema: &types.ToolInputSchemaMemberJson{
			Value: document.NewLazyDocument(schemaMap),
		},
	}, nil
}

// toolInputFromOutput returns the JSON input of the requirement tool call.
func toolInputFromOutput(out *bedrockruntime.ConverseOutput) ([]byte, bool, error) {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return nil, false, nil
	}

	for _, cb := range msg.Value.Content {
		tu, ok := cb.(*types.ContentBlockMemberToolUse)
		if !ok || tu == nil || aws.ToString(tu.Value.Name) != extractor.ToolName || tu.Value.Input == nil {
			continue
		}

		b, err := tu.Value.Input.MarshalSmithyDocument()
		if err != nil {
			return nil, false, fmt.Errorf("failed to read tool input: %w", err)
		}
		return b, true, nil
	}
	return nil, false, nil
}

// textFromOutput joins the assistant's text blocks with newlines.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	return strings.Join(texts, "\n")
}
