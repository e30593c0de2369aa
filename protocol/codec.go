package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrVersion      = errors.New("unsupported protocol version")
)

// Encode wraps payload in a versioned envelope. A nil payload is sent
// without a "p" field.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode envelope: empty type")
	}
	var pb json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", t, err)
		}
		pb = b
	}
	return json.Marshal(Envelope{V: ProtocolVersion, T: t, P: pb})
}

// DecodeEnvelope parses a text frame. Envelopes from another protocol
// version are rejected with ErrVersion.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyMessage
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.V != ProtocolVersion {
		return Envelope{}, fmt.Errorf("%w: got %d, want %d", ErrVersion, e.V, ProtocolVersion)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", env.T, err)
	}
	return out, nil
}

// EncodeState packs a state frame for a binary message
func EncodeState(s State) ([]byte, error) {
	return msgpack.Marshal(&s)
}

// DecodeState unpacks a binary state frame
func DecodeState(b []byte) (State, error) {
	if len(b) == 0 {
		return State{}, ErrEmptyMessage
	}
	var s State
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	return s, nil
}
