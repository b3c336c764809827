package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github/chapool/go-zkwallet/internal/eip712"
)

// EnvPrefix prefixes every environment variable read by the config,
// e.g. ZKS_ERA_RPC_URLS.
const EnvPrefix = "ZKS"

// Config keys
const (
	KeyEraRPCURLs          = "era.rpc_urls"
	KeyEraChainID          = "era.chain_id"
	KeyEthRPCURLs          = "eth.rpc_urls"
	KeyEthChainID          = "eth.chain_id"
	KeyPrivateKey          = "wallet.private_key"
	KeyKeystorePath        = "wallet.keystore_path"
	KeyKeystorePassword    = "wallet.keystore_password"
	KeyMnemonic            = "wallet.mnemonic"
	KeyMnemonicKeystore    = "wallet.mnemonic_keystore_path"
	KeyMnemonicPassphrase  = "wallet.mnemonic_passphrase"
	KeyDerivationPath      = "wallet.derivation_path"
	KeyReceiptTimeout      = "wallet.receipt_timeout"
	KeyReceiptPollInterval = "wallet.receipt_poll_interval"
	KeyLogLevel            = "logger.level"
	KeyLogPretty           = "logger.pretty_print_console"
	KeyMetricsPushURL      = "metrics.push_url"
	KeyMetricsJob          = "metrics.job"
)

// Network describes one chain the wallet talks to.
type Network struct {
	RPCURLs []string
	ChainID uint64
}

// Wallet holds the key source and the receipt polling settings. Exactly one
// key source is used, checked in the order PrivateKey, KeystorePath,
// MnemonicKeystorePath, Mnemonic. Both keystores use KeystorePassword.
type Wallet struct {
	PrivateKey           string `json:"-"`
	KeystorePath         string
	KeystorePassword     string `json:"-"`
	MnemonicKeystorePath string
	Mnemonic             string `json:"-"`
	MnemonicPassphrase   string `json:"-"`
	DerivationPath       string

	ReceiptTimeout      time.Duration
	ReceiptPollInterval time.Duration
}

type Logger struct {
	Level              zerolog.Level
	PrettyPrintConsole bool
}

// Metrics names the Pushgateway the counters are pushed to when a command
// finishes. An empty PushURL disables pushing.
type Metrics struct {
	PushURL string
	Job     string
}

// Config is the full runtime configuration.
type Config struct {
	Era     Network
	Eth     Network
	Wallet  Wallet
	Logger  Logger
	Metrics Metrics
}

func setDefaults(v *viper.Viper) {
	const (
		defaultEraChainID          = 270
		defaultEthChainID          = 9
		defaultReceiptTimeout      = 2 * time.Minute
		defaultReceiptPollInterval = time.Second
		defaultMetricsJob          = "zkwallet"
	)

	v.SetDefault(KeyEraRPCURLs, []string{"http://localhost:3050"})
	v.SetDefault(KeyEraChainID, defaultEraChainID)
	v.SetDefault(KeyEthRPCURLs, []string{"http://localhost:8545"})
	v.SetDefault(KeyEthChainID, defaultEthChainID)
	v.SetDefault(KeyPrivateKey, "")
	v.SetDefault(KeyKeystorePath, "")
	v.SetDefault(KeyKeystorePassword, "")
	v.SetDefault(KeyMnemonic, "")
	v.SetDefault(KeyMnemonicKeystore, "")
	v.SetDefault(KeyMnemonicPassphrase, "")
	v.SetDefault(KeyDerivationPath, "m/44'/60'/0'/0/0")
	v.SetDefault(KeyReceiptTimeout, defaultReceiptTimeout)
	v.SetDefault(KeyReceiptPollInterval, defaultReceiptPollInterval)
	v.SetDefault(KeyLogLevel, zerolog.InfoLevel.String())
	v.SetDefault(KeyLogPretty, false)
	v.SetDefault(KeyMetricsPushURL, "")
	v.SetDefault(KeyMetricsJob, defaultMetricsJob)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// DefaultConfigFromEnv returns the defaults overridden by ZKS_* environment
// variables. Invalid values fall back to the defaults.
func DefaultConfigFromEnv() Config {
	cfg, err := fromViper(newViper())
	if err != nil {
		return fromDefaults()
	}
	return cfg
}

// Load reads an optional .env file and an optional config file (any format
// viper understands) and applies environment overrides on top.
func Load(configPath string, dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := gotenv.Load(dotenvPath); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "failed to load %s", dotenvPath)
		}
	}

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}

	return fromViper(v)
}

func fromDefaults() Config {
	v := viper.New()
	setDefaults(v)
	cfg, _ := fromViper(v)
	return cfg
}

func fromViper(v *viper.Viper) (Config, error) {
	level, err := zerolog.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, errors.Wrapf(eip712.ErrInvalidInput, "invalid log level: %v", err)
	}

	cfg := Config{
		Era: Network{
			RPCURLs: stringList(v, KeyEraRPCURLs),
			ChainID: v.GetUint64(KeyEraChainID),
		},
		Eth: Network{
			RPCURLs: stringList(v, KeyEthRPCURLs),
			ChainID: v.GetUint64(KeyEthChainID),
		},
		Wallet: Wallet{
			PrivateKey:           v.GetString(KeyPrivateKey),
			KeystorePath:         v.GetString(KeyKeystorePath),
			KeystorePassword:     v.GetString(KeyKeystorePassword),
			MnemonicKeystorePath: v.GetString(KeyMnemonicKeystore),
			Mnemonic:             v.GetString(KeyMnemonic),
			MnemonicPassphrase:   v.GetString(KeyMnemonicPassphrase),
			DerivationPath:       v.GetString(KeyDerivationPath),
			ReceiptTimeout:       v.GetDuration(KeyReceiptTimeout),
			ReceiptPollInterval:  v.GetDuration(KeyReceiptPollInterval),
		},
		Logger: Logger{
			Level:              level,
			PrettyPrintConsole: v.GetBool(KeyLogPretty),
		},
		Metrics: Metrics{
			PushURL: v.GetString(KeyMetricsPushURL),
			Job:     v.GetString(KeyMetricsJob),
		},
	}

	if len(cfg.Era.RPCURLs) == 0 {
		return Config{}, errors.Wrapf(eip712.ErrInvalidInput, "%s must not be empty", KeyEraRPCURLs)
	}

	return cfg, nil
}

// stringList accepts both a list (config file) and a comma separated string
// (environment).
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	if s, ok := v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = v.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
