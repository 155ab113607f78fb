// Package voucher issues EIP-712 signed licence vouchers that the Brolli
// contract redeems on chain. Nothing is persisted: the contract tracks
// consumed nonces and expiry.
package voucher

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TTL is the validity window of every voucher
const TTL = 600 * time.Second

// NonceBytes is the nonce width; 12 bytes gives a 96-bit nonce
const NonceBytes = 12

// MinAllowance is one USDC in 6-decimal token units
var MinAllowance = big.NewInt(1_000_000)

// Voucher is the struct signed under the Brolli domain
type Voucher struct {
	Beneficiary common.Address
	Nonce       *big.Int
	ValidUntil  *big.Int
}

// NewNonce reads a 96-bit unsigned nonce from r
func NewNonce(r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, NonceBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return new(big.Int).SetBytes(buf), nil
}

// ValidUntil returns the expiry for a voucher issued at now
func ValidUntil(now time.Time) *big.Int {
	return big.NewInt(now.Add(TTL).Unix())
}

// Wire is the JSON form of a voucher. Integers travel as decimal strings.
type Wire struct {
	Beneficiary string `json:"beneficiary"`
	Nonce       string `json:"nonce"`
	ValidUntil  string `json:"validUntil"`
}

// Wire converts v to its JSON form
func (v Voucher) Wire() Wire {
	return Wire{
		Beneficiary: v.Beneficiary.Hex(),
		Nonce:       v.Nonce.String(),
		ValidUntil:  v.ValidUntil.String(),
	}
}

// Issued is the response for a single issuance
type Issued struct {
	ChainID           int64  `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
	Voucher           Wire   `json:"voucher"`
	Signature         string `json:"signature"`
}

// Batch is the response for a batch issuance. Vouchers and Signatures are
// aligned with the requested beneficiaries.
type Batch struct {
	ChainID           int64    `json:"chainId"`
	VerifyingContract string   `json:"verifyingContract"`
	Count             int      `json:"count"`
	Vouchers          []Wire   `json:"vouchers"`
	Signatures        []string `json:"signatures"`
}

func encodeSignature(sig []byte) string {
	return hexutil.Encode(sig)
}
