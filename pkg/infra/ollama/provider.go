package ollama

import (
	"context"
	"strings"

	"github.com/jguan/ollama-model-manager/pkg/service"
)

// Provider adapts the Ollama client to the service.Runtime contract.
type Provider struct {
	client *Client
}

func NewProvider(baseURL string) *Provider {
	return &Provider{client: NewClient(baseURL)}
}

func NewProviderWithClient(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Client() *Client {
	return p.client
}

func (p *Provider) ListModels(ctx context.Context) ([]service.Model, error) {
	resp, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]service.Model, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, service.Model{
			Name:              m.Name,
			Size:              m.Size,
			ModifiedAt:        m.ModifiedAt,
			Digest:            m.Digest,
			Format:            m.Details.Format,
			Family:            m.Details.Family,
			ParameterSize:     m.Details.ParameterSize,
			QuantizationLevel: m.Details.QuantizationLevel,
		})
	}
	return models, nil
}

// Pull downloads name, defaulting the tag to latest the way the ollama
// CLI does. It blocks until the pull finishes or fails.
func (p *Provider) Pull(ctx context.Context, name string) error {
	if !strings.Contains(name, ":") {
		name = name + ":latest"
	}
	return p.client.Pull(ctx, &PullRequest{Name: name}, nil)
}

func (p *Provider) Generate(ctx context.Context, model, prompt string) (*service.GenerateResult, error) {
	resp, err := p.client.Generate(ctx, &GenerateRequest{
		Model:  model,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	return &service.GenerateResult{
		Model:         resp.Model,
		CreatedAt:     resp.CreatedAt,
		Response:      resp.Response,
		Done:          resp.Done,
		TotalDuration: resp.TotalDuration,
		EvalCount:     resp.EvalCount,
	}, nil
}

func (p *Provider) IsRunning(ctx context.Context) bool {
	return p.client.IsRunning(ctx)
}
