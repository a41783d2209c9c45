// Copyright 2023 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type spanKeyType string

var spanKeyName = spanKeyType(uuid.New().String())

type Status string

const (
	StatusPending  Status = "Pending"
	StatusComplete Status = "Complete"
	StatusRunning  Status = "Running"
	StatusFailed   Status = "Failed"
)

// Span tracks the progress of a long-running stage. Child spans are attached
// to the context so that nested stages report under their parent.
type Span struct {
	name     string
	status   Status
	total    int
	count    int
	err      error
	start    time.Time
	finish   time.Time
	mu       sync.Mutex
	children sync.Map
}

func (s *Span) Add(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count += n
}

func (s *Span) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = s.total
	s.status = StatusComplete
	s.finish = time.Now()
}

func (s *Span) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.status = StatusFailed
	s.finish = time.Now()
}

func (s *Span) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Span) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress := Progress{
		Name:       s.name,
		Status:     s.status,
		Count:      s.count,
		Total:      s.total,
		StartTime:  s.start,
		FinishTime: s.finish,
	}
	if s.err != nil {
		progress.Error = s.err.Error()
	}
	return progress
}

// Start creates a span and attaches it to the context. If the context already
// carries a span, the new span is registered as its child.
func Start(ctx context.Context, name string, total int) (context.Context, *Span) {
	childSpan := &Span{
		name:   name,
		status: StatusRunning,
		total:  total,
		start:  time.Now(),
	}
	if ctx == nil {
		return nil, childSpan
	}
	if span, ok := ctx.Value(spanKeyName).(*Span); ok {
		span.children.Store(name, childSpan)
	}
	return context.WithValue(ctx, spanKeyName, childSpan), childSpan
}

type Progress struct {
	Name       string
	Status     Status
	Error      string
	Count      int
	Total      int
	StartTime  time.Time
	FinishTime time.Time
}
