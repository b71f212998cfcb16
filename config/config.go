package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/superpiccell/spen-minter/env"
	"github.com/superpiccell/spen-minter/service/logger"
)

// -------------------------------------------------------------
const (
	appEnv                    = "ENV"
	port                      = "PORT"
	chainID                   = "CHAIN_ID"
	nftRPCURL                 = "NFT_RPC_URL"
	networkName               = "NETWORK_NAME"
	nftContractAddress        = "NFT_CONTRACT_ADDRESS"
	coreContractAddress       = "CORE_CONTRACT_ADDRESS"
	coreRPCURL                = "CORE_RPC_URL"
	contentType               = "CONTENT_TYPE"
	checkCoreProtectedMode    = "CHECK_CORE_PROTECTED_MODE"
	checkContentProtectedMode = "CHECK_CONTENT_PROTECTED_MODE"
	checkMintedContent        = "CHECK_MINTED_CONTENT"
	walletRPCURL              = "WALLET_RPC_URL"
	walletPrivateKey          = "WALLET_PRIVATE_KEY"
	scanConcurrency           = "SCAN_CONCURRENCY"
	ipfsURL                   = "IPFS_URL"
	explorerURL               = "EXPLORER_URL"
	openseaURL                = "OPENSEA_URL"
	sentryDSN                 = "SENTRY_DSN"
	sentryTracesSampleRate    = "SENTRY_TRACES_SAMPLE_RATE"
	receiptPollInterval       = "RECEIPT_POLL_INTERVAL"
	allowedOrigins            = "ALLOWED_ORIGINS"
)

// Features toggles the independent mint-eligibility checks.
type Features struct {
	CheckCoreProtectedMode    bool
	CheckContentProtectedMode bool
	CheckMintedContent        bool
}

// Network is the chain the session must be on, and how to add it to a wallet that lacks it.
type Network struct {
	ChainID uint64
	RPCURL  string
	Name    string
}

// DisplayName is the network name with its first letter upper-cased, as wallets show it.
func (n Network) DisplayName() string {
	if n.Name == "" {
		return ""
	}
	return strings.ToUpper(n.Name[:1]) + n.Name[1:]
}

// ChainIDHex is the 0x-prefixed chain id used by wallet_* requests.
func (n Network) ChainIDHex() string {
	return fmt.Sprintf("0x%x", n.ChainID)
}

type Config struct {
	AppEnv string
	Port   int

	Network             Network
	NFTContractAddress  common.Address
	CoreContractAddress common.Address
	CoreRPCURL          string
	ContentType         string
	Features            Features

	WalletRPCURL     string
	WalletPrivateKey string

	ScanConcurrency     int
	ReceiptPollInterval time.Duration

	IPFSURL     string
	ExplorerURL string
	OpenseaURL  string

	SentryDSN              string
	SentryTracesSampleRate float64

	AllowedOrigins []string
}

// TxURL links a transaction hash on the block explorer.
func (c *Config) TxURL(hash string) string {
	return fmt.Sprintf("%s/tx/%s", c.explorerBase(), hash)
}

// TokenURLs returns the explorer and marketplace links for a token of the NFT contract.
func (c *Config) TokenURLs(tokenID string) (explorer string, opensea string) {
	explorer = fmt.Sprintf("%s/%s/%s", c.explorerBase(), c.NFTContractAddress.Hex(), tokenID)
	if c.OpenseaURL != "" {
		opensea = fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.OpenseaURL, "/"), c.NFTContractAddress.Hex(), tokenID)
	}
	return explorer, opensea
}

func (c *Config) explorerBase() string {
	if c.ExplorerURL != "" {
		return strings.TrimSuffix(c.ExplorerURL, "/")
	}
	return fmt.Sprintf("https://%s.etherscan.io", c.Network.Name)
}

// SetDefaults registers defaults and validation tags for every key this process reads.
func SetDefaults() {
	viper.SetDefault(appEnv, "local")
	viper.SetDefault(port, 4000)
	viper.SetDefault(chainID, 11155111)
	viper.SetDefault(nftRPCURL, "https://rpc.sepolia.org")
	viper.SetDefault(networkName, "sepolia")
	viper.SetDefault(contentType, "")
	viper.SetDefault(checkCoreProtectedMode, "false")
	viper.SetDefault(checkContentProtectedMode, "false")
	viper.SetDefault(checkMintedContent, "false")
	viper.SetDefault(scanConcurrency, 1)
	viper.SetDefault(receiptPollInterval, "1s")
	viper.SetDefault(sentryTracesSampleRate, 0.2)
	viper.SetDefault(allowedOrigins, "http://localhost:3000")

	viper.AutomaticEnv()

	env.RegisterValidation(nftContractAddress, "required", "eth_addr")
	env.RegisterValidation(coreContractAddress, "required", "eth_addr")
	env.RegisterValidation(nftRPCURL, "required", "url")
	env.RegisterValidation(chainID, "required")
}

// LoadConfigFile reads an optional dotenv-style file on top of the environment.
func LoadConfigFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		logger.For(context.Background()).Debugf("no config file at %s, using environment only", path)
		return
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("env")
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Sprintf("Error reading in env file: %s", err))
	}
}

// -------------------------------------------------------------
func LoadConfig(ctx context.Context) (*Config, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	if env.GetString(ctx, walletRPCURL) == "" && env.GetString(ctx, walletPrivateKey) == "" {
		logger.For(ctx).Warnf("neither %s nor %s is set; no wallet provider will be available", walletRPCURL, walletPrivateKey)
	}

	poll, err := time.ParseDuration(env.GetString(ctx, receiptPollInterval))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", receiptPollInterval, err)
	}

	concurrency := env.GetInt(ctx, scanConcurrency)
	if concurrency < 1 {
		concurrency = 1
	}

	return &Config{
		AppEnv: env.GetString(ctx, appEnv),
		Port:   env.GetInt(ctx, port),
		Network: Network{
			ChainID: env.GetUint64(ctx, chainID),
			RPCURL:  env.GetString(ctx, nftRPCURL),
			Name:    env.GetString(ctx, networkName),
		},
		NFTContractAddress:  common.HexToAddress(env.GetString(ctx, nftContractAddress)),
		CoreContractAddress: common.HexToAddress(env.GetString(ctx, coreContractAddress)),
		CoreRPCURL:          env.GetString(ctx, coreRPCURL),
		ContentType:         env.GetString(ctx, contentType),
		Features: Features{
			CheckCoreProtectedMode:    env.GetFlag(ctx, checkCoreProtectedMode),
			CheckContentProtectedMode: env.GetFlag(ctx, checkContentProtectedMode),
			CheckMintedContent:        env.GetFlag(ctx, checkMintedContent),
		},
		WalletRPCURL:           env.GetString(ctx, walletRPCURL),
		WalletPrivateKey:       env.GetString(ctx, walletPrivateKey),
		ScanConcurrency:        concurrency,
		ReceiptPollInterval:    poll,
		IPFSURL:                env.GetString(ctx, ipfsURL),
		ExplorerURL:            env.GetString(ctx, explorerURL),
		OpenseaURL:             env.GetString(ctx, openseaURL),
		SentryDSN:              env.GetString(ctx, sentryDSN),
		SentryTracesSampleRate: env.GetFloat64(ctx, sentryTracesSampleRate),
		AllowedOrigins:         splitList(env.GetString(ctx, allowedOrigins)),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
