// Package model defines the domain models shared by the claim services.
package model

// Claim is a server co-signed authorization to mint Clicks tokens to a
// recipient once. Token doubles as the on-chain claim uid.
type Claim struct {
	Token     string `json:"token"`
	Claim     string `json:"claim"`
	Clicks    uint64 `json:"clicks"`
	Contract  string `json:"contract"`
	Signature string `json:"signature"`
}
