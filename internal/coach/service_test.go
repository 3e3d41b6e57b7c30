package coach

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/trakaido/trakaido/internal/llm"
)

func validTipJSON() json.RawMessage {
	return json.RawMessage(`{
		"tip": "The accusative marks the direct object: -ė becomes -ę.",
		"example": "matau katę (I see the cat)"
	}`)
}

func waitForTip(t *testing.T, svc *Service) (*Tip, bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if tip, ok := svc.ConsumeTip(); ok {
			return tip, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil, false
}

func TestService_GeneratesTip(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: validTipJSON(),
	})
	svc := NewService(mock, DefaultConfig())

	svc.RequestTip(t.Context(), TipInput{
		Words:    []string{"katė", "šuo", "vanduo"},
		Accuracy: 0.65,
	})

	tip, ok := waitForTip(t, svc)
	if !ok || tip == nil {
		t.Fatal("expected tip to be generated")
	}
	if !strings.Contains(tip.Text, "accusative") {
		t.Errorf("unexpected tip text: %q", tip.Text)
	}
	if tip.Example == "" {
		t.Error("expected non-empty example")
	}
}

func TestService_ConsumeClearsTip(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: validTipJSON(),
	})
	svc := NewService(mock, DefaultConfig())

	svc.RequestTip(t.Context(), TipInput{})

	if _, ok := waitForTip(t, svc); !ok {
		t.Fatal("expected tip to be generated")
	}

	// Second consume should return false.
	if _, ok := svc.ConsumeTip(); ok {
		t.Error("expected second ConsumeTip to return false")
	}
}

func TestService_LLMError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{},
	})
	svc := NewService(mock, DefaultConfig())

	svc.RequestTip(t.Context(), TipInput{})

	// Wait a bit for async completion.
	time.Sleep(100 * time.Millisecond)

	tip, ok := svc.ConsumeTip()
	if ok && tip != nil {
		t.Error("expected no tip on LLM error")
	}
}

func TestService_EmptyTipRejected(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"tip":"","example":"x"}`),
	})
	svc := NewService(mock, DefaultConfig())

	svc.RequestTip(t.Context(), TipInput{})
	time.Sleep(100 * time.Millisecond)

	if _, ok := svc.ConsumeTip(); ok {
		t.Error("expected empty tip to be rejected")
	}
}

func TestService_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: validTipJSON(),
	})
	svc := NewService(mock, DefaultConfig())

	svc.RequestTip(t.Context(), TipInput{Words: []string{"duona"}})

	if _, ok := waitForTip(t, svc); !ok {
		t.Fatal("expected tip to be generated")
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema == nil || req.Schema.Name != "grammar-tip" {
		t.Error("expected schema name 'grammar-tip'")
	}
	if !strings.Contains(req.Messages[0].Content, "duona") {
		t.Error("expected learner's words in the prompt")
	}
}
