// Package backendtest provides test doubles for the backend package.
package backendtest

import (
	"fmt"
	"sync"
)

// Call records one hardware operation for assertions.
type Call struct {
	Provider string
	Op       string // "list", "get", "set"
	Physical int
	Value    int // set value, or value returned by get
}

// CallLog collects calls across providers so protocol ordering is observable
// in tests. Share one log between the primary and fallback fakes to assert
// that DDC/CI is always attempted first.
type CallLog struct {
	mu    sync.Mutex
	calls []Call
}

// NewCallLog creates an empty call log.
func NewCallLog() *CallLog {
	return &CallLog{}
}

func (l *CallLog) record(c Call) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
}

// Calls returns a copy of all recorded calls in order.
func (l *CallLog) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Ops returns "provider:op" strings in call order, ignoring list calls.
// Handy for terse ordering assertions.
func (l *CallLog) Ops() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, c := range l.calls {
		if c.Op == "list" {
			continue
		}
		out = append(out, fmt.Sprintf("%s:%s[%d]", c.Provider, c.Op, c.Physical))
	}
	return out
}

// Reset clears recorded calls.
func (l *CallLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

// FakeProvider simulates one brightness protocol. Values are per physical
// index; failures are scripted per index and per operation.
type FakeProvider struct {
	mu       sync.Mutex
	name     string
	handles  []string
	values   map[int]int
	getErrs  map[int]error
	setErrs  map[int]error
	listErr  error
	log      *CallLog
	setCount int
}

// NewFakeProvider creates a provider that reports the given handles and
// answers every index with brightness 50.
func NewFakeProvider(name string, handles ...string) *FakeProvider {
	p := &FakeProvider{
		name:    name,
		handles: handles,
		values:  make(map[int]int),
		getErrs: make(map[int]error),
		setErrs: make(map[int]error),
	}
	for i := range handles {
		p.values[i] = 50
	}
	return p
}

// WithCallLog attaches a shared call log.
func (p *FakeProvider) WithCallLog(log *CallLog) *FakeProvider {
	p.log = log
	return p
}

// SetValue scripts the brightness reported for a physical index.
func (p *FakeProvider) SetValue(physical, value int) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[physical] = value
	return p
}

// FailGet scripts a read failure for a physical index.
func (p *FakeProvider) FailGet(physical int, err error) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.getErrs[physical] = err
	return p
}

// FailSet scripts a write failure for a physical index.
func (p *FakeProvider) FailSet(physical int, err error) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setErrs[physical] = err
	return p
}

// FailIndex scripts both read and write failures for a physical index.
func (p *FakeProvider) FailIndex(physical int, err error) *FakeProvider {
	return p.FailGet(physical, err).FailSet(physical, err)
}

// FailList scripts an enumeration failure.
func (p *FakeProvider) FailList(err error) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listErr = err
	return p
}

// SetHandles replaces the enumerated handle list (simulates hot-plug).
func (p *FakeProvider) SetHandles(handles ...string) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handles = handles
	for i := range handles {
		if _, ok := p.values[i]; !ok {
			p.values[i] = 50
		}
	}
	return p
}

// Value returns the current scripted brightness for a physical index.
func (p *FakeProvider) Value(physical int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[physical]
}

// SetCalls returns how many Set operations were attempted.
func (p *FakeProvider) SetCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setCount
}

// Name implements backend.Provider.
func (p *FakeProvider) Name() string { return p.name }

// List implements backend.Provider.
func (p *FakeProvider) List() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.record(Call{Provider: p.name, Op: "list"})
	if p.listErr != nil {
		return nil, p.listErr
	}
	out := make([]string, len(p.handles))
	copy(out, p.handles)
	return out, nil
}

// Get implements backend.Provider.
func (p *FakeProvider) Get(physical int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.record(Call{Provider: p.name, Op: "get", Physical: physical})
	if err := p.getErrs[physical]; err != nil {
		return 0, err
	}
	if physical < 0 || physical >= len(p.handles) {
		return 0, fmt.Errorf("%s: no handle at physical index %d", p.name, physical)
	}
	return p.values[physical], nil
}

// Set implements backend.Provider.
func (p *FakeProvider) Set(physical, value int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setCount++
	p.log.record(Call{Provider: p.name, Op: "set", Physical: physical, Value: value})
	if err := p.setErrs[physical]; err != nil {
		return err
	}
	if physical < 0 || physical >= len(p.handles) {
		return fmt.Errorf("%s: no handle at physical index %d", p.name, physical)
	}
	p.values[physical] = value
	return nil
}

// FakePrimary is a scripted primary-display detector.
type FakePrimary struct {
	Index int
	Err   error
}

// PrimaryIndex implements backend.PrimaryDetector.
func (f *FakePrimary) PrimaryIndex() (int, error) {
	return f.Index, f.Err
}
