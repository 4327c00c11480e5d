// Package llm 封装多模态生成后端客户端
package llm

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"blueprint-ai-api/internal/config"
	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/pkg/datauri"
	"blueprint-ai-api/pkg/errors"
	"blueprint-ai-api/pkg/logger"
	"blueprint-ai-api/pkg/metrics"
	"blueprint-ai-api/pkg/tracer"
)

// GeminiClient 基于 Gemini API 的生成后端实现
type GeminiClient struct {
	client      *genai.Client
	provider    string
	model       string
	temperature float32
	timeout     time.Duration
}

var _ Client = (*GeminiClient)(nil)

// NewGeminiClient 创建 Gemini 后端客户端
func NewGeminiClient(ctx context.Context, cfg config.BackendConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeBackendError, "failed to create gemini client")
	}
	return &GeminiClient{
		client:      client,
		provider:    cfg.Provider,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
	}, nil
}

// Generate 执行一次生成调用并解析异构响应
// 零候选返回 EmptyResponse，传输层失败返回 BackendError，不做重试
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Output, error) {
	ctx, span := tracer.Start(ctx, "llm.generate")
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents, err := c.buildContents(req.Messages)
	if err != nil {
		return nil, err
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr(c.temperature),
		ResponseModalities: responseModalities(req),
	}
	if req.SystemInstruction != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	metrics.BackendCallDuration.WithLabelValues(c.provider, c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendCallTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		logger.Error(ctx, "backend call failed", err, "model", c.model)
		return nil, errors.Wrap(err, errors.CodeBackendError, "generation backend failure")
	}
	if len(resp.Candidates) == 0 {
		metrics.BackendCallTotal.WithLabelValues(c.provider, c.model, "empty").Inc()
		return nil, errors.ErrEmptyResponse
	}
	metrics.BackendCallTotal.WithLabelValues(c.provider, c.model, "success").Inc()

	return parseCandidate(resp.Candidates[0]), nil
}

// buildContents 将领域消息转换为后端内容列表
func (c *GeminiClient) buildContents(messages []Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		parts := make([]*genai.Part, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			if p.ImageHandle != "" {
				mimeType, data, err := datauri.DecodeBytes(p.ImageHandle)
				if err != nil {
					return nil, err
				}
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{MIMEType: mimeType, Data: data},
				})
				continue
			}
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		contents = append(contents, &genai.Content{
			Role:  roleToBackend(msg.Role),
			Parts: parts,
		})
	}
	return contents, nil
}

// parseCandidate 解析首个候选：文本按序拼接，内联图像按序重编码为句柄
// 后续候选一律忽略
func parseCandidate(candidate *genai.Candidate) *Output {
	out := &Output{}
	if candidate == nil || candidate.Content == nil {
		return out
	}
	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		if p == nil {
			continue
		}
		if p.InlineData != nil {
			out.Images = append(out.Images, datauri.EncodeBytes(p.InlineData.MIMEType, p.InlineData.Data))
			continue
		}
		if p.Text != "" {
			text.WriteString(p.Text)
		}
	}
	out.Text = text.String()
	return out
}

func responseModalities(req Request) []string {
	var modalities []string
	if req.WantText {
		modalities = append(modalities, "TEXT")
	}
	if req.WantImages {
		modalities = append(modalities, "IMAGE")
	}
	return modalities
}

func roleToBackend(role entity.Role) string {
	if role == entity.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
