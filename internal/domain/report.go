package domain

import (
	"encoding/json"
	"time"
)

const KindOfferReport = "offerreport"

// OfferReport is a complaint about an offer. Reports are append-only.
type OfferReport struct {
	ID        string          `json:"recordId"`
	Kind      string          `json:"recordKind"`
	Reporter  string          `json:"address"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// GUID returns the reported offer's guid from the payload. Only non-empty
// string guids count; a numeric guid is not the same offer as its string form.
func (r OfferReport) GUID() (string, bool) {
	var obj struct {
		GUID json.RawMessage `json:"guid"`
	}
	if err := json.Unmarshal(r.Payload, &obj); err != nil || obj.GUID == nil {
		return "", false
	}
	var guid string
	if err := json.Unmarshal(obj.GUID, &guid); err != nil {
		return "", false
	}
	return guid, guid != ""
}
