package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/gorilla/websocket"

	"github.com/superpiccell/spen-minter/contracts"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/rpc/ipfs"
	"github.com/superpiccell/spen-minter/util"
)

// Error codes and reasons wallets report through EIP-1193 errors
const (
	CodeUserRejected      = 4001
	CodeUnrecognizedChain = 4902
	ReasonActionRejected  = "ACTION_REJECTED"
)

const defaultDialTimeout = 10 * time.Second

// WalletError is a JSON-RPC error returned by a wallet provider
type WalletError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e WalletError) Error() string {
	return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message)
}

// ErrorCode implements go-ethereum's rpc.Error
func (e WalletError) ErrorCode() int { return e.Code }

// ErrorData implements go-ethereum's rpc.DataError
func (e WalletError) ErrorData() interface{} { return e.Data }

// ErrorCode returns the JSON-RPC error code carried by err, if any
func ErrorCode(err error) (int, bool) {
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode(), true
	}
	return 0, false
}

// IsUnrecognizedChain reports whether a wallet refused to switch because it does not know the chain
func IsUnrecognizedChain(err error) bool {
	code, ok := ErrorCode(err)
	return ok && code == CodeUnrecognizedChain
}

// IsUserRejected reports whether the wallet user declined a request
func IsUserRejected(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := ErrorCode(err); ok && code == CodeUserRejected {
		return true
	}
	return strings.Contains(err.Error(), ReasonActionRejected)
}

// RevertMessage returns the reason a contract call reverted. When the node returned the raw revert
// data it is decoded, otherwise the error message is returned as is.
func RevertMessage(err error) string {
	if err == nil {
		return ""
	}
	var dataErr gethrpc.DataError
	if errors.As(err, &dataErr) {
		if s, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(s); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					if strings.Contains(err.Error(), reason) {
						return err.Error()
					}
					return fmt.Sprintf("%s: %s", err.Error(), reason)
				}
			}
		}
	}
	return err.Error()
}

// DialClient connects to a JSON-RPC endpoint. Websocket URLs use a dialer with an enlarged read buffer.
func DialClient(ctx context.Context, url string) (*gethrpc.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()

	if strings.HasPrefix(url, "ws://") || strings.HasPrefix(url, "wss://") {
		dialer := *websocket.DefaultDialer
		dialer.ReadBufferSize = 1024 * 20
		return gethrpc.DialWebsocketWithDialer(ctx, url, "", dialer)
	}

	return gethrpc.DialContext(ctx, url)
}

// NewEthClient returns an ethclient for url
func NewEthClient(ctx context.Context, url string) (*ethclient.Client, error) {
	rpcClient, err := DialClient(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return ethclient.NewClient(rpcClient), nil
}

// GetTokenURI returns the metadata URI the NFT contract reports for a token
func GetTokenURI(ctx context.Context, nft *contracts.SPENCaller, tokenID persist.TokenID) (persist.TokenURI, error) {
	turi, err := nft.TokenURI(&bind.CallOpts{Context: ctx}, tokenID.BigInt())
	if err != nil {
		return "", err
	}
	return persist.TokenURI(strings.ReplaceAll(turi, "\x00", "")), nil
}

// GetMetadataFromURI parses and returns the NFT metadata for a given token URI
func GetMetadataFromURI(ctx context.Context, turi persist.TokenURI, ipfsReader ipfs.Reader) (persist.TokenMetadata, error) {
	bs, err := GetDataFromURI(ctx, turi, ipfsReader)
	if err != nil {
		return persist.TokenMetadata{}, err
	}

	// remove BOM https://en.wikipedia.org/wiki/Byte_order_mark
	bs = util.RemoveBOM(bs)

	var metadata persist.TokenMetadata
	dec := json.NewDecoder(bytes.NewReader(bs))
	dec.UseNumber()
	if err := dec.Decode(&metadata); err != nil {
		return persist.TokenMetadata{}, err
	}

	return metadata, nil
}

// GetDataFromURI calls URI and returns the data
func GetDataFromURI(ctx context.Context, turi persist.TokenURI, ipfsReader ipfs.Reader) ([]byte, error) {
	asString := strings.TrimSpace(turi.String())

	switch turi.Type() {
	case persist.URITypeJSON:
		if i := strings.IndexByte(asString, '{'); i > 0 {
			asString = asString[i:]
		}
		return []byte(asString), nil
	case persist.URITypeBase64JSON:
		// decode the base64 encoded json
		b64data := asString[strings.IndexByte(asString, ',')+1:]
		decoded, err := base64.StdEncoding.DecodeString(b64data)
		if err != nil {
			return nil, fmt.Errorf("error decoding base64 data: %s", err)
		}
		return decoded, nil
	case persist.URITypeIPFS:
		if ipfsReader == nil {
			return nil, fmt.Errorf("no ipfs reader available for %s", asString)
		}
		it, err := ipfsReader.Do(ctx, ipfs.PathFrom(asString))
		if err != nil {
			return nil, fmt.Errorf("error getting data from ipfs: %s", err)
		}
		defer it.Close()

		bs, err := io.ReadAll(it)
		if err != nil {
			return nil, fmt.Errorf("error reading data from ipfs: %s", err)
		}
		return bs, nil
	case persist.URITypeHTTP:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, asString, nil)
		if err != nil {
			return nil, err
		}
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("error getting data from http: %s", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode > 299 || resp.StatusCode < 200 {
			return nil, util.ErrHTTP{Status: resp.StatusCode, URL: asString}
		}
		return io.ReadAll(resp.Body)
	default:
		return nil, fmt.Errorf("unknown token URI type: %s", turi.Type())
	}
}
