package chain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const erc20ABI = `[{
	"constant": true,
	"inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}],
	"name": "allowance",
	"outputs": [{"name": "", "type": "uint256"}],
	"stateMutability": "view",
	"type": "function"
}]`

// AllowanceReader reads ERC-20 allowances
type AllowanceReader interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

// ERC20 reads allowances with eth_call against latest state
type ERC20 struct {
	caller  ethereum.ContractCaller
	abi     abi.ABI
	timeout time.Duration
}

// NewERC20 creates a reader over caller. timeout bounds each call; zero
// leaves the caller's context as the only bound.
func NewERC20(caller ethereum.ContractCaller, timeout time.Duration) (*ERC20, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return &ERC20{caller: caller, abi: parsed, timeout: timeout}, nil
}

// Allowance returns token.allowance(owner, spender)
func (e *ERC20) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	input, err := e.abi.Pack("allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("pack allowance: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("call allowance on %s: %w", token.Hex(), err)
	}

	values, err := e.abi.Unpack("allowance", out)
	if err != nil {
		return nil, fmt.Errorf("decode allowance from %s: %w", token.Hex(), err)
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decode allowance from %s: unexpected type %T", token.Hex(), values[0])
	}
	return amount, nil
}

// LazyClient dials the RPC endpoint on first use and reuses the connection.
// A failed dial is retried on the next call.
type LazyClient struct {
	url        string
	httpClient *http.Client

	mu     sync.Mutex
	client *ethclient.Client
}

// NewLazyClient creates a client for url. httpClient may be nil.
func NewLazyClient(url string, httpClient *http.Client) *LazyClient {
	return &LazyClient{url: url, httpClient: httpClient}
}

func (l *LazyClient) get(ctx context.Context) (*ethclient.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}

	var opts []rpc.ClientOption
	if l.httpClient != nil {
		opts = append(opts, rpc.WithHTTPClient(l.httpClient))
	}
	rc, err := rpc.DialOptions(ctx, l.url, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", l.url, err)
	}
	l.client = ethclient.NewClient(rc)
	return l.client, nil
}

// CallContract implements ethereum.ContractCaller
func (l *LazyClient) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	c, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.CallContract(ctx, call, blockNumber)
}

// CodeAt implements ethereum.ContractCaller
func (l *LazyClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	c, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.CodeAt(ctx, account, blockNumber)
}

// Close releases the connection if one was opened
func (l *LazyClient) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		l.client.Close()
		l.client = nil
	}
}
