package offchain

// AliasDataRequest is the body of POST /aliasdata/{alias}. Payload carries the
// document exactly as it was hashed.
type AliasDataRequest struct {
	Payload    string `json:"payload"`
	Hash       string `json:"hash"`
	SignedHash string `json:"signedHash"`
}

// ReportRequest is the body of POST /reportoffer.
type ReportRequest struct {
	Payload    string `json:"payload"`
	Hash       string `json:"hash"`
	SignedHash string `json:"signedHash"`
	Address    string `json:"address"`
}

type SubmitResponse struct {
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
}

// AliasInfo is the subset of the syscoind `aliasinfo` result the proxy relies on.
type AliasInfo struct {
	Name    string `json:"_id"`
	Address string `json:"address"`
	Expired bool   `json:"expired"`
}
