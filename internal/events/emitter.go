// Package events converts committed ledger transitions into the canonical
// EVENT_JSON records consumed by off-chain relayers. Emission is a pure side
// effect: it never mutates ledger state and never fails the operation that
// already committed. If payload serialization fails the emitter falls back to
// an empty data object rather than dropping the line.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/types"
)

const (
	// Standard and StandardVersion tag every emitted envelope.
	Standard        = "metabridge"
	StandardVersion = "1.0.0"
)

// Kind is the closed set of event discriminators. The string tags exist only
// at the serialization edge, in marshalKind.
type Kind int

const (
	KindLocked Kind = iota
	KindUnlocked
)

func marshalKind(k Kind) string {
	switch k {
	case KindLocked:
		return "token_locked"
	case KindUnlocked:
		return "token_unlocked"
	}
	return "unknown"
}

// Sink receives fully formatted event lines. Implementations must not block;
// a slow consumer is the consumer's problem, never the ledger's.
type Sink interface {
	Publish(line []byte)
}

// lockedPayload is the wire shape of token_locked data. Amount is a decimal
// string so values past the signed 64-bit range survive every JSON parser.
type lockedPayload struct {
	MessageID          string `json:"message_id"`
	Sender             string `json:"sender"`
	TokenContract      string `json:"token_contract"`
	Amount             string `json:"amount"`
	DestinationChain   string `json:"destination_chain"`
	DestinationAddress string `json:"destination_address"`
	Nonce              uint64 `json:"nonce"`
	Timestamp          int64  `json:"timestamp"`
}

// unlockedPayload is the wire shape of token_unlocked data.
type unlockedPayload struct {
	MessageID     string `json:"message_id"`
	SourceChain   string `json:"source_chain"`
	SenderAddress string `json:"sender_address"`
	Recipient     string `json:"recipient"`
	TokenContract string `json:"token_contract"`
	Amount        string `json:"amount"`
	Timestamp     int64  `json:"timestamp"`
}

// Emitter formats and publishes event lines to its sinks.
type Emitter struct {
	sinks []Sink
}

// NewEmitter creates an emitter publishing to the given sinks.
func NewEmitter(sinks ...Sink) *Emitter {
	return &Emitter{sinks: sinks}
}

// EmitLocked publishes a token_locked event for a committed lock.
func (e *Emitter) EmitLocked(rec *types.LockRecord) {
	e.publish(KindLocked, lockedPayload{
		MessageID:          rec.MessageID,
		Sender:             rec.Sender,
		TokenContract:      rec.TokenContract,
		Amount:             fmt.Sprintf("%d", rec.Amount),
		DestinationChain:   rec.DestinationChain,
		DestinationAddress: rec.DestinationAddress,
		Nonce:              rec.Nonce,
		Timestamp:          rec.CreatedAt.Unix(),
	})
}

// EmitUnlocked publishes a token_unlocked event for a committed unlock.
func (e *Emitter) EmitUnlocked(rec *types.UnlockRecord) {
	e.publish(KindUnlocked, unlockedPayload{
		MessageID:     rec.MessageID,
		SourceChain:   rec.SourceChain,
		SenderAddress: rec.SenderAddress,
		Recipient:     rec.Recipient,
		TokenContract: rec.TokenContract,
		Amount:        fmt.Sprintf("%d", rec.Amount),
		Timestamp:     rec.CreatedAt.Unix(),
	})
}

func (e *Emitter) publish(kind Kind, payload interface{}) {
	line := FormatLine(kind, payload)
	for _, sink := range e.sinks {
		sink.Publish(line)
	}
}

// FormatLine builds the canonical tagged record:
//
//	EVENT_JSON:{"standard":"metabridge","version":"1.0.0","event":"token_locked","data":{...}}
//
// A payload that cannot be serialized degrades to an empty data object.
func FormatLine(kind Kind, payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	return []byte(fmt.Sprintf(
		`EVENT_JSON:{"standard":"%s","version":"%s","event":"%s","data":%s}`,
		Standard, StandardVersion, marshalKind(kind), data,
	))
}
