package model

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionStatus is the final state of a redemption attempt.
type RedemptionStatus string

var (
	// RedemptionRedeemed marks a claim minted on-chain by this client.
	RedemptionRedeemed RedemptionStatus = "redeemed"
	// RedemptionAlreadyClaimed marks a claim the contract had already redeemed.
	RedemptionAlreadyClaimed RedemptionStatus = "already_claimed"
	// RedemptionFailed marks a submission or receipt failure; the claim stays pending.
	RedemptionFailed RedemptionStatus = "failed"
	// RedemptionRejected marks a claim that failed local validation.
	RedemptionRejected RedemptionStatus = "rejected"
)

// Redemption is a journal row describing one redemption attempt.
type Redemption struct {
	ID        uuid.UUID
	Network   NetworkID
	Contract  string
	Token     string
	Recipient string
	Clicks    uint64
	Amount    string
	TxHash    string
	Status    RedemptionStatus
	Message   string
	CreatedAt time.Time
}

// RedemptionFilter narrows journal queries. Empty fields match everything.
type RedemptionFilter struct {
	Recipient string
	Token     string
	Limit     uint64
}
