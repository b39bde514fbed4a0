package persistence

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/petrijr/exclusive/pkg/api"
)

// eventRecord is the wire form of api.TaskEvent for key-value backends.
// Times travel as Unix nanoseconds so the monotonic reading and location
// never reach the store.
type eventRecord struct {
	Worker   string
	TaskID   string
	Seq      uint64
	Type     string
	AtNanos  int64
	Duration int64
	Detail   string
}

// EncodeEvent serializes ev using encoding/gob.
func EncodeEvent(ev api.TaskEvent) ([]byte, error) {
	rec := eventRecord{
		Worker:   ev.Worker,
		TaskID:   ev.TaskID,
		Seq:      ev.Seq,
		Type:     string(ev.Type),
		AtNanos:  ev.At.UnixNano(),
		Duration: int64(ev.Duration),
		Detail:   ev.Detail,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeEvent is the inverse of EncodeEvent.
func DecodeEvent(data []byte) (api.TaskEvent, error) {
	if len(data) == 0 {
		return api.TaskEvent{}, fmt.Errorf("decode event: empty payload")
	}

	var rec eventRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return api.TaskEvent{}, fmt.Errorf("decode event: %w", err)
	}
	return api.TaskEvent{
		Worker:   rec.Worker,
		TaskID:   rec.TaskID,
		Seq:      rec.Seq,
		Type:     api.EventType(rec.Type),
		At:       time.Unix(0, rec.AtNanos),
		Duration: time.Duration(rec.Duration),
		Detail:   rec.Detail,
	}, nil
}
