package colorsep

import (
	"errors"
	"testing"
)

func TestFallbackErrorUnwrap(t *testing.T) {
	if !errors.Is(ErrUnsupportedDepth, ErrFallback) {
		t.Error("ErrUnsupportedDepth should unwrap to ErrFallback")
	}
	if !errors.Is(ErrNotInitialized, ErrFallback) {
		t.Error("ErrNotInitialized should unwrap to ErrFallback")
	}
	if errors.Is(ErrAborted, ErrFallback) {
		t.Error("ErrAborted must not unwrap to ErrFallback")
	}
}

func TestRegisterPipelineNil(t *testing.T) {
	if err := RegisterPipeline(nil); err == nil {
		t.Error("nil pipeline accepted")
	}
}

func TestRegisterPipelineInitFailure(t *testing.T) {
	swapPipeline(t, nil)
	fp := &fakePipeline{name: "broken", initErr: errors.New("no device")}
	if err := RegisterPipeline(fp); err == nil {
		t.Fatal("failing Init accepted")
	}
	if ActivePipeline() != nil {
		t.Error("pipeline registered despite Init failure")
	}
}

func TestRegisterPipelineReplacesAndCloses(t *testing.T) {
	swapPipeline(t, nil)
	first := &fakePipeline{name: "first"}
	second := &fakePipeline{name: "second"}
	if err := RegisterPipeline(first); err != nil {
		t.Fatal(err)
	}
	if err := RegisterPipeline(second); err != nil {
		t.Fatal(err)
	}
	if !first.closed {
		t.Error("replaced pipeline was not closed")
	}
	if got := ActivePipeline(); got != second {
		t.Errorf("ActivePipeline() = %v, want second", got)
	}
}
