package authfakes

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-stateless-auth/identity"
	"github.com/jrsteele09/go-stateless-auth/internal/errors"
	"github.com/jrsteele09/go-stateless-auth/provider"
)

// FakeExchanger is an in-memory Exchanger keyed by authorization code.
// Unknown codes fail with an ExchangeFailed error, like a rejected code at the provider.
type FakeExchanger struct {
	mu         sync.Mutex
	identities map[string]identity.Identity
	failures   map[string]error
	calls      []string
}

func NewFakeExchanger() *FakeExchanger {
	return &FakeExchanger{
		identities: make(map[string]identity.Identity),
		failures:   make(map[string]error),
	}
}

// Accept makes code resolve to id.
func (f *FakeExchanger) Accept(code string, id identity.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identities[code] = id
}

// Fail makes code fail with err.
func (f *FakeExchanger) Fail(code string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[code] = err
}

func (f *FakeExchanger) Exchange(_ context.Context, code string) (identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, code)

	if code == "" {
		return identity.Identity{}, &provider.ExchangeError{Kind: provider.InvalidArgument, Err: errors.New("authorization code is empty")}
	}
	if err, ok := f.failures[code]; ok {
		return identity.Identity{}, err
	}
	if id, ok := f.identities[code]; ok {
		return id, nil
	}
	return identity.Identity{}, &provider.ExchangeError{Kind: provider.ExchangeFailed, ProviderCode: "invalid_grant"}
}

// Calls returns the codes presented so far, in order.
func (f *FakeExchanger) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// FakeRecorder counts exchange and decision outcomes.
type FakeRecorder struct {
	mu        sync.Mutex
	Exchanges map[string]int
	Decisions map[string]int
}

func NewFakeRecorder() *FakeRecorder {
	return &FakeRecorder{Exchanges: map[string]int{}, Decisions: map[string]int{}}
}

func (r *FakeRecorder) ObserveExchange(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Exchanges[outcome]++
}

func (r *FakeRecorder) ObserveDecision(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Decisions[outcome]++
}
