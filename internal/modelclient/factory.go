// internal/modelclient/factory.go
package modelclient

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/taskwizard/taskwizard/internal/config"
)

// Factory builds resilient clients and owns the process-wide breaker per
// endpoint configuration. Asking for the same configuration again reuses its
// breaker state; a changed configuration gets a fresh, closed breaker.
type Factory struct {
	mu       sync.Mutex
	logger   *zap.Logger
	breakers map[string]*Breaker
}

// NewFactory creates an empty factory.
func NewFactory(logger *zap.Logger) *Factory {
	return &Factory{
		logger:   logger,
		breakers: make(map[string]*Breaker),
	}
}

// Client returns a resilient model client for cfg.
func (f *Factory) Client(cfg config.ModelConfig) (*Resilient, error) {
	inner, err := newProvider(cfg, f.logger)
	if err != nil {
		return nil, err
	}
	return NewResilient(inner, f.breakerFor(cfg), cfg, f.logger), nil
}

// breakerFor keys breaker state by endpoint identity, so distinct endpoint
// configurations never share failure counts.
func (f *Factory) breakerFor(cfg config.ModelConfig) *Breaker {
	key := fmt.Sprintf("%s|%s|%s", cfg.Provider, cfg.Endpoint, cfg.Model)
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.breakers[key]; ok {
		return b
	}
	b := NewBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown)
	f.breakers[key] = b
	return b
}

// newProvider instantiates the raw endpoint dialect.
func newProvider(cfg config.ModelConfig, logger *zap.Logger) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAIClient(cfg, logger)
	case "gemini":
		return NewGeminiClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
