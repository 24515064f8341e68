// Package codec converts claims to and from their portable text form: a
// single-line base64 encoding of a JSON envelope.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
)

// DecodeError reports why a packed claim could not be read.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode claim: %s: %v", e.Reason, e.Err)
	}
	return "decode claim: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type envelope struct {
	Token     *string `json:"token"`
	Claim     *string `json:"claim"`
	Clicks    *uint64 `json:"clicks"`
	Contract  *string `json:"contract"`
	Signature *string `json:"signature"`
}

// Pack encodes c into its portable form.
func Pack(c model.Claim) string {
	raw, err := json.Marshal(envelope{
		Token:     &c.Token,
		Claim:     &c.Claim,
		Clicks:    &c.Clicks,
		Contract:  &c.Contract,
		Signature: &c.Signature,
	})
	if err != nil {
		// envelope only holds strings and an integer
		panic(fmt.Sprintf("marshal claim envelope: %v", err))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// Unpack decodes a packed claim. Unknown envelope fields are ignored so that
// exports carrying newer optional fields remain readable.
func Unpack(packed string) (model.Claim, error) {
	packed = strings.TrimSpace(packed)
	if packed == "" {
		return model.Claim{}, &DecodeError{Reason: "empty input"}
	}

	raw, err := base64.StdEncoding.DecodeString(packed)
	if err != nil {
		var rawErr error
		if raw, rawErr = base64.RawStdEncoding.DecodeString(packed); rawErr != nil {
			return model.Claim{}, &DecodeError{Reason: "invalid base64", Err: err}
		}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.Claim{}, &DecodeError{Reason: "invalid json", Err: err}
	}

	var missing []string
	if env.Token == nil {
		missing = append(missing, "token")
	}
	if env.Claim == nil {
		missing = append(missing, "claim")
	}
	if env.Clicks == nil {
		missing = append(missing, "clicks")
	}
	if env.Contract == nil {
		missing = append(missing, "contract")
	}
	if env.Signature == nil {
		missing = append(missing, "signature")
	}
	if len(missing) > 0 {
		return model.Claim{}, &DecodeError{Reason: "missing fields: " + strings.Join(missing, ", ")}
	}

	return model.Claim{
		Token:     *env.Token,
		Claim:     *env.Claim,
		Clicks:    *env.Clicks,
		Contract:  *env.Contract,
		Signature: *env.Signature,
	}, nil
}
