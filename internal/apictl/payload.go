package apictl

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// PayloadCodec layers a structured payload over a single opaque string
// header. It composes a HeaderOperator rather than extending it: the codec
// owns encoding, the operator owns transport.
//
// Encoding is JSON wrapped in unpadded base64url so the value survives any
// header-safe transport unchanged.
type PayloadCodec[T any] struct {
	op HeaderOperator
}

// NewPayloadCodec wraps a primitive header operator.
func NewPayloadCodec[T any](op HeaderOperator) *PayloadCodec[T] {
	return &PayloadCodec[T]{op: op}
}

// GetHeader decodes the payload stored under key. A missing header yields
// the zero value with ok=false. A present but undecodable value is an
// ErrMalformedPayload.
func (c *PayloadCodec[T]) GetHeader(key string) (T, bool, error) {
	var payload T

	raw := c.op.GetHeader(key)
	if raw == "" {
		return payload, false, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return payload, false, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return payload, false, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return payload, true, nil
}

// SetHeader encodes the payload and writes it under key.
func (c *PayloadCodec[T]) SetHeader(key string, payload T) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode header payload: %w", err)
	}
	c.op.SetHeader(key, base64.RawURLEncoding.EncodeToString(encoded))
	return nil
}
