package voucher

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brolli/brolli/internal/apierr"
	"github.com/brolli/brolli/internal/chain"
	"github.com/brolli/brolli/internal/metrics"
	"github.com/brolli/brolli/internal/worker"
)

// Variant selects the preconditions checked before signing
type Variant string

const (
	// VariantAgent issues without a payment check
	VariantAgent Variant = "agent"
	// VariantPurchase requires a USDC allowance on every network
	VariantPurchase Variant = "purchase"
	// VariantHuman requires a USDC allowance except on local chains
	VariantHuman Variant = "human"

	variantBatch = "batch"
)

// Error codes returned by the issuer
const (
	CodeInvalidBeneficiary    = "invalid_beneficiary"
	CodeInvalidBeneficiaries  = "invalid_beneficiaries"
	CodeDuplicateBeneficiary  = "duplicate_beneficiary"
	CodeBatchTooLarge         = "batch_too_large"
	CodeMissingSignerKey      = "missing_signer_key"
	CodeInvalidSignerKey      = "invalid_signer_key"
	CodeMissingDeployment     = "missing_deployment"
	CodeMissingResourceWallet = "missing_resource_wallet"
	CodeMissingToken          = "missing_token"
	CodeInsufficientAllowance = "insufficient_allowance"
	CodeAllowanceCheckFailed  = "allowance_check_failed"
	CodeSigningFailed         = "signing_failed"
)

// Options configures an Issuer. Missing values surface as configuration
// errors when a request needs them, not at construction.
type Options struct {
	Network        chain.Network
	SignerKey      string
	Contract       string // overrides Deployments for the active chain
	Deployments    chain.Deployments
	ResourceWallet string
	Token          string // overrides the network's USDC address
	Allowance      chain.AllowanceReader
	MaxBatch       int
	Workers        int
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Now            func() time.Time
	Rand           io.Reader // nonce source, crypto/rand when nil; reads are serialised
}

// Issuer validates requests and signs vouchers
type Issuer struct {
	network   chain.Network
	allowance chain.AllowanceReader
	maxBatch  int
	workers   int
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	randMu    sync.Mutex
	rand      io.Reader

	key      *ecdsa.PrivateKey
	keyErr   *apierr.Error
	contract common.Address
	hasDepl  bool
	wallet   string
	token    string
}

// NewIssuer creates an issuer for opts.Network
func NewIssuer(opts Options) *Issuer {
	if opts.Network == "" {
		opts.Network = chain.DefaultNetwork
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	iss := &Issuer{
		network:   opts.Network,
		allowance: opts.Allowance,
		maxBatch:  opts.MaxBatch,
		workers:   opts.Workers,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
		rand:      opts.Rand,
		wallet:    strings.TrimSpace(opts.ResourceWallet),
		token:     strings.TrimSpace(opts.Token),
	}

	switch key := strings.TrimSpace(opts.SignerKey); {
	case key == "":
		iss.keyErr = apierr.Config(CodeMissingSignerKey, errors.New("Missing LICENSE_SIGNER_PRIVATE_KEY"))
	default:
		k, err := ParsePrivateKey(key)
		if err != nil {
			iss.keyErr = apierr.Config(CodeInvalidSignerKey, errors.New("LICENSE_SIGNER_PRIVATE_KEY is not a valid secp256k1 key"))
		} else {
			iss.key = k
		}
	}

	if c := strings.TrimSpace(opts.Contract); common.IsHexAddress(c) {
		iss.contract, iss.hasDepl = common.HexToAddress(c), true
	} else if addr, ok := opts.Deployments.Lookup(opts.Network.ChainID()); ok {
		iss.contract, iss.hasDepl = addr, true
	}

	return iss
}

// Network is the active network
func (i *Issuer) Network() chain.Network { return i.network }

// ChainID is the active chain id
func (i *Issuer) ChainID() int64 { return i.network.ChainID() }

// SignerAddress returns the signing account, if a valid key is configured
func (i *Issuer) SignerAddress() (common.Address, bool) {
	if i.key == nil {
		return common.Address{}, false
	}
	return crypto.PubkeyToAddress(i.key.PublicKey), true
}

func (i *Issuer) signer() (*Signer, error) {
	if i.keyErr != nil {
		return nil, i.keyErr
	}
	if !i.hasDepl {
		return nil, apierr.Config(CodeMissingDeployment,
			fmt.Errorf("Missing Brolli deployment for chainId %d. Run hardhat deploy for this network.", i.ChainID()))
	}
	return NewSigner(i.key, i.ChainID(), i.contract), nil
}

func requiresAllowance(v Variant, n chain.Network) bool {
	switch v {
	case VariantPurchase:
		return true
	case VariantHuman:
		return !n.IsLocal()
	}
	return false
}

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address that is
// either all lowercase or carries a valid EIP-55 checksum.
func IsAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return false
	}
	if body := s[2:]; strings.ToLower(body) == body {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}

// ParseBeneficiary validates a beneficiary address with IsAddress
func ParseBeneficiary(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Address{}, apierr.Validation(CodeInvalidBeneficiary, errors.New("Missing beneficiary"))
	}
	if !IsAddress(s) {
		return common.Address{}, apierr.Validation(CodeInvalidBeneficiary, fmt.Errorf("Invalid address: %s", s)).With("address", s)
	}
	return common.HexToAddress(s), nil
}

// Issue signs one voucher for beneficiary after the checks variant needs
func (i *Issuer) Issue(ctx context.Context, beneficiary string, variant Variant) (*Issued, error) {
	id := uuid.NewString()
	log := i.logger.With(zap.String("issuance_id", id), zap.String("variant", string(variant)))

	issued, err := i.issue(ctx, beneficiary, variant)
	if err != nil {
		ae := apierr.As(err)
		i.metrics.VoucherFailed(string(variant), ae.Code)
		if ae.Status >= 500 {
			log.Error("voucher issuance failed", zap.String("code", ae.Code), zap.Error(err))
		} else {
			log.Info("voucher request rejected", zap.String("code", ae.Code), zap.Error(err))
		}
		return nil, err
	}

	i.metrics.VoucherIssued(string(variant), 1)
	log.Info("voucher issued",
		zap.String("beneficiary", issued.Voucher.Beneficiary),
		zap.Int64("chain_id", issued.ChainID),
		zap.String("valid_until", issued.Voucher.ValidUntil))
	return issued, nil
}

func (i *Issuer) issue(ctx context.Context, beneficiary string, variant Variant) (*Issued, error) {
	addr, err := ParseBeneficiary(beneficiary)
	if err != nil {
		return nil, err
	}

	signer, err := i.signer()
	if err != nil {
		return nil, err
	}

	if requiresAllowance(variant, i.network) {
		if err := i.checkAllowance(ctx, addr); err != nil {
			return nil, err
		}
	}

	v, err := i.newVoucher(addr, ValidUntil(i.now()))
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(v)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, CodeSigningFailed, err)
	}

	return &Issued{
		ChainID:           signer.ChainID(),
		VerifyingContract: signer.Contract().Hex(),
		Voucher:           v.Wire(),
		Signature:         encodeSignature(sig),
	}, nil
}

func (i *Issuer) newVoucher(addr common.Address, validUntil *big.Int) (Voucher, error) {
	i.randMu.Lock()
	nonce, err := NewNonce(i.rand)
	i.randMu.Unlock()
	if err != nil {
		return Voucher{}, apierr.New(http.StatusInternalServerError, CodeSigningFailed, err)
	}
	return Voucher{Beneficiary: addr, Nonce: nonce, ValidUntil: validUntil}, nil
}

func (i *Issuer) checkAllowance(ctx context.Context, owner common.Address) error {
	if !common.IsHexAddress(i.wallet) {
		return apierr.Config(CodeMissingResourceWallet, errors.New("Missing X402_RESOURCE_WALLET"))
	}
	token, ok := i.tokenAddress()
	if !ok {
		return apierr.Config(CodeMissingToken, fmt.Errorf("USDC contract not configured for chainId %d", i.ChainID()))
	}
	if i.allowance == nil {
		return apierr.Config(CodeAllowanceCheckFailed, errors.New("Failed to verify USDC allowance"))
	}

	current, err := i.allowance.Allowance(ctx, token, owner, common.HexToAddress(i.wallet))
	if err != nil {
		return apierr.Upstream(CodeAllowanceCheckFailed, fmt.Errorf("Failed to verify USDC allowance: %w", err))
	}
	if current.Cmp(MinAllowance) < 0 {
		return apierr.Payment(CodeInsufficientAllowance, errors.New("Insufficient USDC allowance. Please approve $1 USDC first.")).
			With("required", MinAllowance.String()).
			With("current", current.String())
	}
	return nil
}

func (i *Issuer) tokenAddress() (common.Address, bool) {
	if common.IsHexAddress(i.token) {
		return common.HexToAddress(i.token), true
	}
	return i.network.USDC()
}

// IssueBatch signs one voucher per beneficiary with a shared expiry. The
// whole list is validated first; any invalid, duplicate or missing entry
// fails the batch with nothing signed.
func (i *Issuer) IssueBatch(ctx context.Context, beneficiaries []string) (*Batch, error) {
	id := uuid.NewString()
	log := i.logger.With(zap.String("issuance_id", id), zap.String("variant", variantBatch))

	batch, err := i.issueBatch(ctx, beneficiaries)
	if err != nil {
		ae := apierr.As(err)
		i.metrics.VoucherFailed(variantBatch, ae.Code)
		log.Info("batch voucher request failed", zap.String("code", ae.Code), zap.Error(err))
		return nil, err
	}

	i.metrics.VoucherIssued(variantBatch, batch.Count)
	log.Info("batch vouchers issued", zap.Int("count", batch.Count), zap.Int64("chain_id", batch.ChainID))
	return batch, nil
}

func (i *Issuer) issueBatch(ctx context.Context, beneficiaries []string) (*Batch, error) {
	addrs, err := i.validateBatch(beneficiaries)
	if err != nil {
		return nil, err
	}

	signer, err := i.signer()
	if err != nil {
		return nil, err
	}

	// Nonces are drawn before the fan-out; workers only sign.
	validUntil := ValidUntil(i.now())
	jobs := make([]worker.Job, len(addrs))
	for n, addr := range addrs {
		v, err := i.newVoucher(addr, validUntil)
		if err != nil {
			return nil, err
		}
		jobs[n] = &signJob{signer: signer, voucher: v}
	}

	results := worker.Run(ctx, i.workers, jobs)
	if err := ctx.Err(); err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, CodeSigningFailed, fmt.Errorf("batch cancelled: %w", err))
	}

	out := &Batch{
		ChainID:           signer.ChainID(),
		VerifyingContract: signer.Contract().Hex(),
		Count:             len(addrs),
		Vouchers:          make([]Wire, len(addrs)),
		Signatures:        make([]string, len(addrs)),
	}
	for n, r := range results {
		if r == nil {
			return nil, apierr.New(http.StatusInternalServerError, CodeSigningFailed, fmt.Errorf("voucher %d was not signed", n))
		}
		if err := r.GetError(); err != nil {
			return nil, err
		}
		sr := r.(*signResult)
		out.Vouchers[n] = sr.voucher.Wire()
		out.Signatures[n] = encodeSignature(sr.signature)
	}
	return out, nil
}

func (i *Issuer) validateBatch(beneficiaries []string) ([]common.Address, error) {
	if len(beneficiaries) == 0 {
		return nil, apierr.Validation(CodeInvalidBeneficiaries, errors.New("Missing or invalid beneficiaries array"))
	}
	if len(beneficiaries) > i.maxBatch {
		return nil, apierr.Validation(CodeBatchTooLarge,
			fmt.Errorf("batch of %d exceeds the limit of %d beneficiaries", len(beneficiaries), i.maxBatch)).
			With("max", i.maxBatch)
	}

	addrs := make([]common.Address, 0, len(beneficiaries))
	for _, b := range beneficiaries {
		s := strings.TrimSpace(b)
		if !IsAddress(s) {
			return nil, apierr.Validation(CodeInvalidBeneficiary, fmt.Errorf("Invalid address: %s", b)).With("address", b)
		}
		addrs = append(addrs, common.HexToAddress(s))
	}

	seen := make(map[common.Address]bool, len(addrs))
	for n, a := range addrs {
		if seen[a] {
			return nil, apierr.Validation(CodeDuplicateBeneficiary, errors.New("Duplicate addresses detected")).
				With("address", beneficiaries[n])
		}
		seen[a] = true
	}
	return addrs, nil
}

type signJob struct {
	signer  *Signer
	voucher Voucher
}

type signResult struct {
	voucher   Voucher
	signature []byte
	err       error
}

func (r *signResult) GetError() error { return r.err }

func (j *signJob) Execute(ctx context.Context) worker.Result {
	if err := ctx.Err(); err != nil {
		return &signResult{err: err}
	}
	sig, err := j.signer.Sign(j.voucher)
	if err != nil {
		return &signResult{err: apierr.New(http.StatusInternalServerError, CodeSigningFailed, err)}
	}
	return &signResult{voucher: j.voucher, signature: sig}
}
