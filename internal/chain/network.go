// Package chain holds the per-network constants and the read-only chain
// calls the voucher issuer depends on.
package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Network is a supported deployment target
type Network string

const (
	Base        Network = "base"
	BaseSepolia Network = "baseSepolia"
	Hardhat     Network = "hardhat"
)

// DefaultNetwork is used when no network is configured
const DefaultNetwork = BaseSepolia

type networkInfo struct {
	chainID int64
	rpcURL  string
	usdc    string
	local   bool
}

var networks = map[Network]networkInfo{
	Base: {
		chainID: 8453,
		rpcURL:  "https://mainnet.base.org",
		usdc:    "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	},
	BaseSepolia: {
		chainID: 84532,
		rpcURL:  "https://sepolia.base.org",
		usdc:    "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
	},
	Hardhat: {
		chainID: 31337,
		rpcURL:  "http://127.0.0.1:8545",
		local:   true,
	},
}

// ParseNetwork resolves a network name. Matching ignores case, dashes and
// underscores; "localhost" is an alias for hardhat. Empty selects the default.
func ParseNetwork(s string) (Network, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(s)))
	switch norm {
	case "":
		return DefaultNetwork, nil
	case "base", "basemainnet":
		return Base, nil
	case "basesepolia":
		return BaseSepolia, nil
	case "hardhat", "localhost":
		return Hardhat, nil
	}
	return "", fmt.Errorf("unknown network %q (supported: base, baseSepolia, hardhat)", s)
}

// ChainID returns the EIP-155 chain id
func (n Network) ChainID() int64 { return networks[n].chainID }

// IsLocal reports whether n is a local development chain
func (n Network) IsLocal() bool { return networks[n].local }

// DefaultRPCURL returns the public RPC endpoint for n
func (n Network) DefaultRPCURL() string { return networks[n].rpcURL }

// USDC returns the canonical USDC token address on n, if there is one
func (n Network) USDC() (common.Address, bool) {
	addr := networks[n].usdc
	if addr == "" {
		return common.Address{}, false
	}
	return common.HexToAddress(addr), true
}

func (n Network) String() string { return string(n) }
