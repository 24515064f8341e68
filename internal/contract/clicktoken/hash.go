package clicktoken

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// ClaimHash computes keccak256(abi.encodePacked(recipient, uid, amount, contract)),
// the message an authorized signer signs.
func ClaimHash(recipient common.Address, uid [32]byte, amount *big.Int, contract common.Address) [32]byte {
	var h [32]byte
	copy(h[:], crypto.Keccak256(
		recipient.Bytes(),
		uid[:],
		math.U256Bytes(new(big.Int).Set(amount)),
		contract.Bytes(),
	))
	return h
}

// RecoverSigner recovers the address that eth_sign'ed hash.
func RecoverSigner(hash [32]byte, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(signature))
	}
	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, errors.New("invalid signature recovery id")
	}
	pub, err := crypto.SigToPub(accounts.TextHash(hash[:]), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
