package clicktoken

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// abiJSON is the subset of the ClickToken interface the claim services use.
const abiJSON = `[
{"inputs":[{"internalType":"address","name":"tokenHolder","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"bytes32","name":"claimHash","type":"bytes32"},{"internalType":"bytes","name":"signature","type":"bytes"}],"name":"checkClaim","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"pure","type":"function"},
{"inputs":[{"internalType":"address","name":"recipient","type":"address"},{"internalType":"bytes32","name":"uid","type":"bytes32"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"bytes","name":"signature","type":"bytes"},{"internalType":"bytes","name":"userData","type":"bytes"},{"internalType":"bytes","name":"operatorData","type":"bytes"}],"name":"claim","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"address","name":"recipient","type":"address"},{"internalType":"bytes32","name":"uid","type":"bytes32"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"bytes","name":"signature","type":"bytes"}],"name":"claim","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"bytes32","name":"","type":"bytes32"}],"name":"claims","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"pure","type":"function"},
{"inputs":[{"internalType":"address","name":"signer","type":"address"},{"internalType":"uint256","name":"allowance","type":"uint256"}],"name":"grantSigner","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"address","name":"recipient","type":"address"},{"internalType":"bytes32","name":"uid","type":"bytes32"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"hashClaim","outputs":[{"internalType":"bytes32","name":"","type":"bytes32"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"signer","type":"address"}],"name":"isSigner","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"name","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"symbol","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

const (
	claimBasicSig    = "claim(address,bytes32,uint256,bytes)"
	claimWithDataSig = "claim(address,bytes32,uint256,bytes,bytes,bytes)"
)

// AlreadyClaimedReason is the revert reason of a claim whose uid was redeemed.
const AlreadyClaimedReason = "already-claimed"

var parseABI = sync.OnceValues(func() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
})

// ABI returns the parsed contract interface.
func ABI() (abi.ABI, error) {
	return parseABI()
}
