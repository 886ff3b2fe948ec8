package erc20

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"poolscope/internal/chain"
)

// BalanceOf returns the token balance of an account.
func BalanceOf(ctx context.Context, chainClient *chain.Client, token, account common.Address) (*big.Int, error) {
	values, err := call(ctx, chainClient, token, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// Allowance returns the amount the owner approved for the spender.
func Allowance(ctx context.Context, chainClient *chain.Client, token, owner, spender common.Address) (*big.Int, error) {
	values, err := call(ctx, chainClient, token, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// Decimals returns the token decimals.
func Decimals(ctx context.Context, chainClient *chain.Client, token common.Address) (uint8, error) {
	values, err := call(ctx, chainClient, token, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(values[0])
}

// Symbol returns the token symbol, falling back to the bytes32 variant used
// by some older tokens.
func Symbol(ctx context.Context, chainClient *chain.Client, token common.Address) (string, error) {
	if values, err := call(ctx, chainClient, token, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			return symbol, nil
		}
	}

	parsed, err := bytes32ABI()
	if err != nil {
		return "", fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}
	values, err := callWith(ctx, chainClient, token, parsed, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := bytes32ToString(values[0])
	if !ok {
		return "", fmt.Errorf("unsupported symbol type %T", values[0])
	}
	return symbol, nil
}

func call(ctx context.Context, chainClient *chain.Client, token common.Address, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := stringABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return callWith(ctx, chainClient, token, parsed, method, args...)
}

func callWith(ctx context.Context, chainClient *chain.Client, token common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if chainClient == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &token, Data: data}
	resp, err := chainClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
