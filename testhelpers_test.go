package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-doctrans/internal/token"
)

// =============================================================================
// Word Counter
// =============================================================================

// wordCounter counts one token per whitespace-separated word. Joining units
// with spaces adds no tokens, which keeps greedy packing exact in tests.
type wordCounter struct{}

func (wordCounter) Count(text, _ string) int {
	return len(strings.Fields(text))
}

var _ token.Counter = wordCounter{}

// =============================================================================
// Mock Translator
// =============================================================================

// mockCall records one Translate invocation.
type mockCall struct {
	Text      string
	SourceTag string
	TargetTag string
}

// mockTranslator implements Translator for testing. It applies transform to
// each unit (default: uppercase) and can fail on a chosen call, report
// truncated output, or run a hook before returning.
type mockTranslator struct {
	mu         sync.Mutex
	calls      []mockCall
	transform  func(string) string
	failOn     int   // 1-based call index to fail on; 0 never fails
	failErr    error // error returned on the failing call
	truncateOn int   // 1-based call index that reports Truncated
	inputLimit int
	onCall     func() // invoked while handling each call, before returning
}

func newMockTranslator() *mockTranslator {
	return &mockTranslator{transform: strings.ToUpper}
}

func (m *mockTranslator) Translate(_ context.Context, text, sourceTag, targetTag string) (Translation, error) {
	m.mu.Lock()
	m.calls = append(m.calls, mockCall{Text: text, SourceTag: sourceTag, TargetTag: targetTag})
	n := len(m.calls)
	m.mu.Unlock()

	if m.onCall != nil {
		m.onCall()
	}

	if m.failOn != 0 && n == m.failOn {
		err := m.failErr
		if err == nil {
			err = errors.New("backend unavailable")
		}
		return Translation{}, err
	}

	return Translation{
		Text:      m.transform(text),
		Truncated: m.truncateOn != 0 && n == m.truncateOn,
	}, nil
}

func (m *mockTranslator) InputTokenLimit() int {
	return m.inputLimit
}

// Calls returns a copy of the recorded invocations.
func (m *mockTranslator) Calls() []mockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Translate invocations.
func (m *mockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// assertError checks that err wraps target using errors.Is.
func assertError(t *testing.T, err, target error) {
	t.Helper()

	if err == nil {
		t.Errorf("expected error wrapping %v, got nil", target)
		return
	}
	if !errors.Is(err, target) {
		t.Errorf("expected error wrapping %v, got %v", target, err)
	}
}

// assertNoError fails if err is not nil.
func assertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertContains checks that haystack contains needle.
func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if !strings.Contains(haystack, needle) {
		t.Errorf("expected %q to contain %q", haystack, needle)
	}
}

// assertEqual checks that got equals want.
func assertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()

	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
