package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

const KindAliasData = "aliasdata"

// AliasData is the off-chain document stored on behalf of an alias owner.
// Payload holds the submitted bytes verbatim.
type AliasData struct {
	ID        string          `json:"recordId"`
	AliasName string          `json:"aliasName"`
	Kind      string          `json:"recordKind"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// reserved keys never handed back to clients
var storageKeys = []string{"_id", "recordId", "recordKind"}

// Document returns the payload as clients see it, without storage metadata.
// Payloads carrying none of the reserved keys are returned byte for byte.
func (a AliasData) Document() json.RawMessage {
	trimmed := bytes.TrimSpace(a.Payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return a.Payload
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return a.Payload
	}

	found := false
	for _, k := range storageKeys {
		if _, ok := obj[k]; ok {
			delete(obj, k)
			found = true
		}
	}
	if !found {
		return a.Payload
	}

	out, err := json.Marshal(obj)
	if err != nil {
		return a.Payload
	}
	return out
}
