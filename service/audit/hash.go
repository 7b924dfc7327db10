package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/viant/govflow/model"
	"github.com/viant/toolbox"
)

// sealed is the canonical, hash-covered projection of an event.
type sealed struct {
	ID           string                 `json:"id"`
	WorkflowID   string                 `json:"workflowId"`
	Type         model.AuditEventType   `json:"eventType"`
	Timestamp    string                 `json:"timestamp"`
	Actor        string                 `json:"actor"`
	Details      map[string]interface{} `json:"details,omitempty"`
	Immutable    bool                   `json:"immutable"`
	Sequence     int                    `json:"sequence"`
	PreviousHash string                 `json:"previousHash"`
}

// NormalizeDetails drops empty values so that semantically equal payloads
// produce identical hashes.
func NormalizeDetails(details map[string]interface{}) map[string]interface{} {
	if len(details) == 0 {
		return nil
	}
	ret := toolbox.DeleteEmptyKeys(details)
	if len(ret) == 0 {
		return nil
	}
	return ret
}

// Canonical returns the indented canonical encoding of e (json.Marshal sorts
// map keys, so the encoding is stable).
func Canonical(e *model.AuditEvent) ([]byte, error) {
	return json.MarshalIndent(&sealed{
		ID:           e.ID,
		WorkflowID:   e.WorkflowID,
		Type:         e.Type,
		Timestamp:    e.Timestamp.UTC().Format(time.RFC3339Nano),
		Actor:        e.Actor,
		Details:      e.Details,
		Immutable:    e.Immutable,
		Sequence:     e.Sequence,
		PreviousHash: e.PreviousHash,
	}, "", "  ")
}

// Hash returns hex(sha256(canonical(e))).
func Hash(e *model.AuditEvent) (string, []byte, error) {
	data, err := Canonical(e)
	if err != nil {
		return "", nil, err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), data, nil
}

// Digest returns hex(sha256(data)).
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
