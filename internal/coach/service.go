package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/trakaido/trakaido/internal/llm"
)

// Service generates personalized grammar tips asynchronously. Callers
// that get no tip from ConsumeTip fall back to StaticGrammarTip.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	pending *Tip
	err     error
	ready   bool
}

// NewService creates a tip generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// RequestTip starts async tip generation. Only one tip is in-flight at
// a time; new requests replace pending ones.
func (s *Service) RequestTip(ctx context.Context, input TipInput) {
	go func() {
		tip, err := s.generate(ctx, input)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = tip
		s.err = err
		s.ready = true
	}()
}

// ConsumeTip returns the pending tip if one is ready.
// Returns (nil, false) if no tip is ready yet or generation failed.
// After consumption, the pending slot is cleared.
func (s *Service) ConsumeTip() (*Tip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	tip := s.pending
	s.pending = nil
	s.ready = false
	s.err = nil
	return tip, tip != nil
}

type tipOutput struct {
	Tip     string `json:"tip"`
	Example string `json:"example"`
}

func (s *Service) generate(ctx context.Context, input TipInput) (*Tip, error) {
	ctx = llm.WithPurpose(ctx, "grammar-tip")

	req := llm.Request{
		System: tipSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTipUserMessage(input)},
		},
		Schema:      TipSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tip generation: %w", err)
	}

	var out tipOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse tip response: %w", err)
	}
	if out.Tip == "" {
		return nil, fmt.Errorf("tip response missing text")
	}

	return &Tip{Text: out.Tip, Example: out.Example}, nil
}
