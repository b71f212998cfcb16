package persist

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the all-zero Ethereum address
const ZeroAddress EthereumAddress = "0x0000000000000000000000000000000000000000"

// EthereumAddress represents an Ethereum address
type EthereumAddress string

// NewEthereumAddress normalizes a go-ethereum address to lower case hex
func NewEthereumAddress(a common.Address) EthereumAddress {
	return EthereumAddress(strings.ToLower(a.Hex()))
}

func (a EthereumAddress) String() string {
	return strings.ToLower(string(a))
}

// Address returns the go-ethereum form of the address
func (a EthereumAddress) Address() common.Address {
	return common.HexToAddress(string(a))
}

// EqualFold compares two addresses ignoring checksum casing
func (a EthereumAddress) EqualFold(b EthereumAddress) bool {
	return strings.EqualFold(string(a), string(b))
}

// TokenID represents the ID of an Ethereum token, stored as hex without a 0x prefix
type TokenID string

// NewTokenID returns the TokenID for i
func NewTokenID(i *big.Int) TokenID {
	return TokenID(i.Text(16))
}

// TokenIDFromBase10 parses a base 10 token id such as one given in a URL
func TokenIDFromBase10(s string) (TokenID, error) {
	i, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || i.Sign() < 0 {
		return "", fmt.Errorf("invalid token id %q", s)
	}
	return NewTokenID(i), nil
}

func (id TokenID) String() string {
	return strings.ToLower(strings.TrimLeft(string(id), "0"))
}

// BigInt returns the token ID as a big.Int
func (id TokenID) BigInt() *big.Int {
	normalized := strings.TrimLeft(string(id), "0")
	if normalized == "" {
		return big.NewInt(0)
	}
	i, ok := new(big.Int).SetString(normalized, 16)
	if !ok {
		panic(fmt.Sprintf("failed to parse token ID %s as base 16", normalized))
	}
	return i
}

// Base10String returns the token ID as a base 10 string
func (id TokenID) Base10String() string {
	return id.BigInt().String()
}

// TokenMetadata represents the JSON metadata for a token
type TokenMetadata map[string]interface{}

// TokenURI represents the URI for an Ethereum token
type TokenURI string

// URIType is the type of a token URI
type URIType string

const (
	URITypeIPFS       URIType = "ipfs"
	URITypeBase64JSON URIType = "base64json"
	URITypeJSON       URIType = "json"
	URITypeHTTP       URIType = "http"
	URITypeNone       URIType = "none"
	URITypeUnknown    URIType = "unknown"
)

func (uri TokenURI) String() string {
	return string(uri)
}

// Type returns the type of the token URI
func (uri TokenURI) Type() URIType {
	asString := strings.TrimSpace(uri.String())
	switch {
	case strings.HasPrefix(asString, "ipfs"), strings.HasPrefix(asString, "Qm"):
		return URITypeIPFS
	case strings.HasPrefix(asString, "data:application/json;base64,"):
		return URITypeBase64JSON
	case strings.HasPrefix(asString, "{"), strings.HasPrefix(asString, "data:application/json"), strings.HasPrefix(asString, "data:text/plain,{"):
		return URITypeJSON
	case strings.HasPrefix(asString, "http"):
		return URITypeHTTP
	case asString == "":
		return URITypeNone
	default:
		return URITypeUnknown
	}
}
