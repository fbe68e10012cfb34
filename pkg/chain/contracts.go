package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// TokenDecimals is the precision of the staked token's base unit
const TokenDecimals = 18

// Contract methods and events read by the Reader
const (
	methodTotalStaked  = "getTotalStakedTokens"
	methodStakeBalance = "getStakeBalanceOf"
	methodBalanceOf    = "balanceOf"

	delegatedEventSignature = "Delegated(address,address)"
)

// DelegatedTopic is topic0 of the delegations contract's Delegated event
var DelegatedTopic = crypto.Keccak256Hash([]byte(delegatedEventSignature))

const stakingABIJSON = `[
	{"type":"function","name":"getTotalStakedTokens","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getStakeBalanceOf","stateMutability":"view","inputs":[{"name":"stakeOwner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

const erc20ABIJSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

// Contracts holds the addresses of the contracts the Reader queries
type Contracts struct {
	Staking     common.Address
	Token       common.Address
	Delegations common.Address
}

// ParseContracts builds Contracts from hex strings
func ParseContracts(staking, token, delegations string) (Contracts, error) {
	var c Contracts
	for _, f := range []struct {
		name string
		hex  string
		dst  *common.Address
	}{
		{"staking", staking, &c.Staking},
		{"token", token, &c.Token},
		{"delegations", delegations, &c.Delegations},
	} {
		if !common.IsHexAddress(f.hex) {
			return Contracts{}, fmt.Errorf("%w: %s contract %q", ErrInvalidAddress, f.name, f.hex)
		}
		*f.dst = common.HexToAddress(f.hex)
	}
	return c, nil
}

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}

var (
	stakingABI = mustParseABI(stakingABIJSON)
	erc20ABI   = mustParseABI(erc20ABIJSON)
)

// unpackAmount decodes a single uint256 return value into token units
func unpackAmount(contract abi.ABI, method string, data []byte) (float64, error) {
	out, err := contract.Unpack(method, data)
	if err != nil {
		return 0, fmt.Errorf("unpacking %s: %w", method, err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("unpacking %s: expected 1 value, got %d", method, len(out))
	}
	amount, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unpacking %s: unexpected type %T", method, out[0])
	}
	return ToTokenUnits(amount), nil
}

// ToTokenUnits converts an amount in base units to whole tokens
func ToTokenUnits(amount *big.Int) float64 {
	if amount == nil {
		return 0
	}
	return decimal.NewFromBigInt(amount, -TokenDecimals).InexactFloat64()
}
