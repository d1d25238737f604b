package models

// UploadClaims is the bearer token the web app sends with each upload.
type UploadClaims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub"` // candidate or employer id, forwarded as uid
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`

	// Backend optionally pins the store for this upload, e.g. "assethost".
	// Empty means the server default.
	Backend string `json:"backend,omitempty"`

	// Admin grants the ledger listing endpoints.
	Admin bool `json:"admin,omitempty"`
}
