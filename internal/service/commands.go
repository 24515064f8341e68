package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/onclick-backend/internal/codec"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/hexstr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommandKind names a claim command.
type CommandKind string

const (
	CommandGenerateClaim CommandKind = "generate_claim"
	CommandSendClaim     CommandKind = "send_claim"
	CommandLoadClaim     CommandKind = "load_claim"
	CommandRemoveClaim   CommandKind = "remove_claim"
)

// OutcomeKind classifies how a command ended.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeWarning OutcomeKind = "warning"
	OutcomeError   OutcomeKind = "error"
)

// Command is a request to the claim engine. Only the fields of its Kind are
// read:
//
//	GenerateClaim: Recipient (optional)
//	SendClaim:     Network (optional), Recipient, Token, Key (optional), Clicks, Signature
//	LoadClaim:     Packed
//	RemoveClaim:   Token
type Command struct {
	Kind      CommandKind     `json:"kind"`
	Network   model.NetworkID `json:"network,omitempty"`
	Recipient string          `json:"recipient,omitempty"`
	Token     string          `json:"token,omitempty"`
	Key       string          `json:"key,omitempty"`
	Clicks    uint64          `json:"clicks,omitempty"`
	Signature string          `json:"signature,omitempty"`
	Packed    string          `json:"packed,omitempty"`
}

// Outcome is the result of a dispatched command.
type Outcome struct {
	ID      uuid.UUID    `json:"id"`
	Kind    OutcomeKind  `json:"kind"`
	Command CommandKind  `json:"command"`
	Token   string       `json:"token,omitempty"`
	Message string       `json:"message,omitempty"`
	TxHash  string       `json:"txHash,omitempty"`
	Claim   *model.Claim `json:"claim,omitempty"`
	// Err is the failure behind an error outcome.
	Err error `json:"-"`
}

// Dispatch runs cmd, publishes its outcome and returns it. Failures are
// reported as error outcomes, never as panics or dropped results.
func (e *Engine) Dispatch(ctx context.Context, cmd Command) Outcome {
	started := time.Now()

	o := e.execute(ctx, cmd)
	o.ID = e.newID()
	o.Command = cmd.Kind

	switch o.Kind {
	case OutcomeError:
		e.logger.Error("claim command failed", zap.String("command", string(cmd.Kind)), zap.Error(o.Err))
	case OutcomeWarning:
		e.logger.Warn("claim command warning", zap.String("command", string(cmd.Kind)), zap.String("message", o.Message))
	}

	e.metrics.ObserveCommand(string(cmd.Kind), string(o.Kind), started)
	e.bus.Publish(o)
	return o
}

func (e *Engine) execute(ctx context.Context, cmd Command) Outcome {
	switch cmd.Kind {
	case CommandGenerateClaim:
		claim, err := e.GenerateClaim(ctx, cmd.Recipient)
		if err != nil {
			return failed(err)
		}
		return Outcome{Kind: OutcomeSuccess, Token: claim.Token, Claim: &claim, Message: "claim generated"}

	case CommandSendClaim:
		res, err := e.SendClaim(ctx, SendClaimRequest{
			Network:   cmd.Network,
			Recipient: cmd.Recipient,
			Token:     cmd.Token,
			Key:       cmd.Key,
			Clicks:    cmd.Clicks,
			Signature: cmd.Signature,
		})
		ref := hexstr.Remove0xPrefix(cmd.Key)
		if ref == "" {
			ref = hexstr.Remove0xPrefix(cmd.Token)
		}
		o := Outcome{Token: ref}
		if err != nil {
			o = failed(err)
			o.Token = ref
			return o
		}
		o.TxHash = res.TxHash
		if res.Warning != "" {
			o.Kind, o.Message = OutcomeWarning, res.Warning
			return o
		}
		o.Kind, o.Message = OutcomeSuccess, "claim redeemed"
		return o

	case CommandLoadClaim:
		claim, err := e.LoadClaim(ctx, cmd.Packed)
		if err != nil {
			return failed(err)
		}
		return Outcome{Kind: OutcomeSuccess, Token: claim.Token, Claim: &claim, Message: "claim loaded"}

	case CommandRemoveClaim:
		token := hexstr.Remove0xPrefix(cmd.Token)
		deleted, err := e.RemoveClaim(ctx, token)
		if err != nil {
			o := failed(err)
			o.Token = token
			return o
		}
		if !deleted {
			return Outcome{Kind: OutcomeWarning, Token: token, Message: ErrClaimNotFound.Error()}
		}
		return Outcome{Kind: OutcomeSuccess, Token: token, Message: "claim removed"}

	default:
		return failed(invalid("command", "unknown command %q", cmd.Kind))
	}
}

func failed(err error) Outcome {
	return Outcome{Kind: OutcomeError, Message: err.Error(), Err: err}
}

// IsInputError reports whether err was caused by the caller's input.
func IsInputError(err error) bool {
	var (
		ie *InputError
		de *codec.DecodeError
	)
	return errors.As(err, &ie) || errors.As(err, &de) || errors.Is(err, ErrNoSession)
}

// IsValidationError reports whether err is a rejected claim.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// String renders the outcome for logs and the CLI.
func (o Outcome) String() string {
	s := fmt.Sprintf("%s %s", o.Kind, o.Command)
	if o.Token != "" {
		s += " " + hexstr.TruncateToken(o.Token)
	}
	if o.Message != "" {
		s += ": " + o.Message
	}
	if o.TxHash != "" {
		s += " (tx " + o.TxHash + ")"
	}
	return s
}
