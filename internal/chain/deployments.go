package chain

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Deployments maps chain ids to the Brolli licence contract
type Deployments map[int64]common.Address

// ParseDeployments reads "chainId -> address" pairs from configuration
func ParseDeployments(raw map[string]string) (Deployments, error) {
	out := make(Deployments, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("deployments: chain id %q is not a number", k)
		}
		if !common.IsHexAddress(v) {
			return nil, fmt.Errorf("deployments: %d: %q is not an address", id, v)
		}
		out[id] = common.HexToAddress(v)
	}
	return out, nil
}

// Lookup returns the contract deployed on chainID
func (d Deployments) Lookup(chainID int64) (common.Address, bool) {
	addr, ok := d[chainID]
	if !ok || addr == (common.Address{}) {
		return common.Address{}, false
	}
	return addr, true
}
