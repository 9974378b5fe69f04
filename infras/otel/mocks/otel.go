package mocks

import (
	"context"
	"sync"

	"condo/infras/otel"
)

// Otel is an in-memory tracer for tests. Spans are discarded but their names and errors are kept.
type Otel struct {
	mu     sync.Mutex
	spans  []string
	errors []error
}

func NewOtel() *Otel {
	return &Otel{}
}

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	o.mu.Lock()
	o.spans = append(o.spans, spanName)
	o.mu.Unlock()

	return ctx, &scope{owner: o}
}

// Spans lists started span names in order.
func (o *Otel) Spans() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]string(nil), o.spans...)
}

// Errors lists every error recorded on any span.
func (o *Otel) Errors() []error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]error(nil), o.errors...)
}

type scope struct {
	owner *Otel
}

func (s *scope) End() {}
func (s *scope) AddEvent(string) {}
func (s *scope) SetAttribute(string, any) {}
func (s *scope) SetAttributes(map[string]any) {}

func (s *scope) TraceError(err error) {
	if err == nil {
		return
	}

	s.owner.mu.Lock()
	s.owner.errors = append(s.owner.errors, err)
	s.owner.mu.Unlock()
}

func (s *scope) TraceIfError(errp *error) {
	if errp != nil {
		s.TraceError(*errp)
	}
}
