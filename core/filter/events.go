package filter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/asaidimu/go-sift/core/frame"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransformEventType identifies the lifecycle stage of a transform invocation.
type TransformEventType string

// Emitted event types.
const (
	TransformStart   TransformEventType = "transform:start"
	TransformSuccess TransformEventType = "transform:success"
	TransformFailed  TransformEventType = "transform:failed"
	TransformNoop    TransformEventType = "transform:noop"
)

// TransformEvent describes one transform invocation for observers such as an
// editing UI. Row and frame counts refer to the whole frame set.
type TransformEvent struct {
	Type         TransformEventType    `json:"type"`
	Timestamp    int64                 `json:"timestamp"` // Unix milliseconds
	InvocationID string                `json:"invocationId"`
	Options      *FilterByValueOptions `json:"options,omitempty"`
	FramesIn     int                   `json:"framesIn"`
	FramesOut    int                   `json:"framesOut,omitempty"`
	RowsIn       int                   `json:"rowsIn"`
	RowsOut      int                   `json:"rowsOut,omitempty"`
	Error        *string               `json:"error,omitempty"`
	Duration     *int64                `json:"duration,omitempty"` // milliseconds
}

// CallbackFunction is invoked for each event a subscriber listens to.
type CallbackFunction func(ctx context.Context, event TransformEvent) error

// SubscriptionInfo records an active event subscription.
type SubscriptionInfo struct {
	ID          string
	Event       TransformEventType
	Label       string
	Unsubscribe func()
}

// EventProcessor wraps a Processor and emits lifecycle events around each
// Apply call on a typed event bus.
type EventProcessor struct {
	processor     *Processor
	bus           *events.TypedEventBus[TransformEvent]
	logger        *zap.Logger
	subscriptions map[string]*SubscriptionInfo
	subMu         sync.RWMutex
}

// NewEventProcessor creates an event-emitting wrapper around processor. A nil
// processor gets a default one.
func NewEventProcessor(processor *Processor, logger *zap.Logger) (*EventProcessor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if processor == nil {
		processor = NewProcessor(nil, logger)
	}
	bus, err := events.NewTypedEventBus[TransformEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}
	return &EventProcessor{
		processor:     processor,
		bus:           bus,
		logger:        logger,
		subscriptions: make(map[string]*SubscriptionInfo),
	}, nil
}

// Processor returns the wrapped processor.
func (e *EventProcessor) Processor() *Processor {
	return e.processor
}

// Subscribe registers a callback for an event type and returns an id for
// Unsubscribe.
func (e *EventProcessor) Subscribe(event TransformEventType, label string, cb CallbackFunction) string {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	unsubscribe := e.bus.Subscribe(string(event), cb)
	id := uuid.New().String()
	e.subscriptions[id] = &SubscriptionInfo{
		ID:          id,
		Event:       event,
		Label:       label,
		Unsubscribe: unsubscribe,
	}
	return id
}

// Unsubscribe removes a subscription by its id. Unknown ids are ignored.
func (e *EventProcessor) Unsubscribe(id string) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	if sub, ok := e.subscriptions[id]; ok {
		sub.Unsubscribe()
		delete(e.subscriptions, id)
	}
}

func (e *EventProcessor) emit(event TransformEvent) {
	if e.bus != nil {
		e.bus.Emit(string(event.Type), event)
	}
}

// Apply runs the wrapped processor's Apply, emitting a start event before and
// a success, noop, or failed event after. A noop is reported when every output
// frame is the untouched input frame (the processor's pass-through fallback).
func (e *EventProcessor) Apply(frames []*frame.Frame, options FilterByValueOptions) ([]*frame.Frame, error) {
	start := time.Now()
	invocation := uuid.New().String()
	rowsIn := totalRows(frames)

	e.emit(TransformEvent{
		Type:         TransformStart,
		Timestamp:    start.UnixMilli(),
		InvocationID: invocation,
		Options:      &options,
		FramesIn:     len(frames),
		RowsIn:       rowsIn,
	})

	result, err := e.processor.Apply(frames, options)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		errStr := err.Error()
		e.emit(TransformEvent{
			Type:         TransformFailed,
			Timestamp:    time.Now().UnixMilli(),
			InvocationID: invocation,
			Options:      &options,
			FramesIn:     len(frames),
			RowsIn:       rowsIn,
			Error:        &errStr,
			Duration:     &duration,
		})
		return nil, err
	}

	eventType := TransformSuccess
	if passedThrough(frames, result) {
		eventType = TransformNoop
	}
	e.emit(TransformEvent{
		Type:         eventType,
		Timestamp:    time.Now().UnixMilli(),
		InvocationID: invocation,
		Options:      &options,
		FramesIn:     len(frames),
		FramesOut:    len(result),
		RowsIn:       rowsIn,
		RowsOut:      totalRows(result),
		Duration:     &duration,
	})
	return result, nil
}

func totalRows(frames []*frame.Frame) int {
	total := 0
	for _, fr := range frames {
		total += fr.Length
	}
	return total
}

// passedThrough reports whether the transform returned the input frames
// untouched, which happens when no filter ever applied.
func passedThrough(in, out []*frame.Frame) bool {
	if len(in) != len(out) {
		return false
	}
	for i := range in {
		if in[i] != out[i] {
			return false
		}
	}
	return true
}
