// Package events provides a registry mapping event-type names to payload
// codecs. The registry is populated once at startup and looked up by key,
// which keeps the set of known event types enumerable and testable instead
// of growing a conditional chain per type.
package events

import (
	"encoding/json"
	"sort"
	"sync"

	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
)

// Codec serializes and deserializes one event payload type.
type Codec interface {
	Encode(payload any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// Registry maps event-type names to their codecs.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register associates a codec with an event type, replacing any previous one.
func (r *Registry) Register(eventType string, codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[eventType] = codec
}

// Lookup returns the codec registered for the event type.
func (r *Registry) Lookup(eventType string) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, ok := r.codecs[eventType]
	return codec, ok
}

// Types returns the sorted list of registered event types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.codecs))
	for t := range r.codecs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Encode serializes a payload using the codec registered for the event type.
// Unregistered types fall back to plain JSON so new event types degrade
// gracefully rather than dropping events.
func (r *Registry) Encode(eventType string, payload any) ([]byte, error) {
	codec, ok := r.Lookup(eventType)
	if !ok {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrSerializationFailure, err.Error())
		}
		return data, nil
	}

	data, err := codec.Encode(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSerializationFailure, err.Error())
	}
	return data, nil
}

// jsonCodec is a Codec backed by encoding/json for a concrete payload type.
type jsonCodec[T any] struct{}

// JSONCodec returns a Codec that marshals payloads of type T as JSON and
// decodes into a fresh *T.
func JSONCodec[T any]() Codec {
	return jsonCodec[T]{}
}

func (jsonCodec[T]) Encode(payload any) ([]byte, error) {
	return json.Marshal(payload)
}

func (jsonCodec[T]) Decode(data []byte) (any, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
