package voucher

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Domain constants shared with the Brolli contract
const (
	DomainName    = "Brolli"
	DomainVersion = "1"
	PrimaryType   = "Voucher"
)

var voucherTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	PrimaryType: {
		{Name: "beneficiary", Type: "address"},
		{Name: "nonce", Type: "uint256"},
		{Name: "validUntil", Type: "uint256"},
	},
}

// ParsePrivateKey decodes a secp256k1 key given as hex, with or without 0x
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, errors.New("empty private key")
	}
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// Signer produces voucher signatures for one chain and contract
type Signer struct {
	key      *ecdsa.PrivateKey
	address  common.Address
	chainID  int64
	contract common.Address
}

// NewSigner binds key to the domain of contract on chainID
func NewSigner(key *ecdsa.PrivateKey, chainID int64, contract common.Address) *Signer {
	return &Signer{
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey),
		chainID:  chainID,
		contract: contract,
	}
}

// Address is the signer's account
func (s *Signer) Address() common.Address { return s.address }

// ChainID is the domain chain id
func (s *Signer) ChainID() int64 { return s.chainID }

// Contract is the domain verifying contract
func (s *Signer) Contract() common.Address { return s.contract }

// TypedData builds the EIP-712 payload for v under the Brolli domain
func TypedData(chainID int64, contract common.Address, v Voucher) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       voucherTypes,
		PrimaryType: PrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              DomainName,
			Version:           DomainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: contract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"beneficiary": v.Beneficiary.Hex(),
			"nonce":       v.Nonce.String(),
			"validUntil":  v.ValidUntil.String(),
		},
	}
}

// Hash returns the EIP-712 digest of v
func Hash(chainID int64, contract common.Address, v Voucher) ([]byte, error) {
	if v.Nonce == nil || v.ValidUntil == nil {
		return nil, errors.New("voucher nonce and validUntil are required")
	}
	digest, _, err := apitypes.TypedDataAndHash(TypedData(chainID, contract, v))
	if err != nil {
		return nil, fmt.Errorf("hash voucher: %w", err)
	}
	return digest, nil
}

// Sign returns the 65-byte signature [R || S || V] with V in {27, 28}
func (s *Signer) Sign(v Voucher) ([]byte, error) {
	digest, err := Hash(s.chainID, s.contract, v)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, fmt.Errorf("sign voucher: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// Recover returns the account that produced sig over v
func Recover(chainID int64, contract common.Address, v Voucher, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature length %d, want %d", len(sig), crypto.SignatureLength)
	}
	digest, err := Hash(chainID, contract, v)
	if err != nil {
		return common.Address{}, err
	}

	normalized := make([]byte, len(sig))
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(digest, normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
