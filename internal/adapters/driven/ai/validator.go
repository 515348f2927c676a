package ai

import (
	"context"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// pinger is the part of both AI ports a connectivity check needs.
type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// ConfigValidator checks that configured providers answer a ping.
type ConfigValidator struct {
	timeout time.Duration
}

// ValidatorOption tunes a ConfigValidator.
type ValidatorOption func(*ConfigValidator)

// WithPingTimeout bounds each provider check. Non-positive values are ignored.
func WithPingTimeout(d time.Duration) ValidatorOption {
	return func(v *ConfigValidator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

func NewConfigValidator(opts ...ValidatorOption) *ConfigValidator {
	v := &ConfigValidator{timeout: pingTimeout}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	return v.ping(ctx, svc)
}

func (v *ConfigValidator) ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	return v.ping(ctx, svc)
}

func (v *ConfigValidator) ping(ctx context.Context, svc pinger) error {
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	return svc.Ping(ctx)
}
