package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"dario.cat/mergo"
	"github.com/Shopify/ejson"
	"github.com/bcaldwell/venmosync/pkg/currency"
	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"
)

const (
	ConfigEnvVar         = "VENMOSYNC_CONFIG"
	EjsonSecretKeyEnvVar = "VENMOSYNC_EJSON_SECRET_KEY"
	ejsonKeyDir          = "/opt/ejson/keys"
)

// AssetListingExcept names the fields listing Lunch Money assets does not need.
var AssetListingExcept = []string{"Venmo.ProfileID", "LunchMoney.AssetID", "LunchMoney.AssetName"}

var config Config
var secrets Secrets

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return currency.Known(fl.Field().String())
	})
}

// ReadConfig loads config and secrets into the package globals. Fields named in except are not
// validated.
func ReadConfig(configFile, secretsFile string, except ...string) error {
	_, err := readConfig(ConfigEnvVar, configFile, except...)
	if err != nil {
		return err
	}

	_, err = readSecrets(secretsFile)
	if err != nil {
		return err
	}
	return nil
}

func CurrentConfig() *Config {
	return &config
}

func CurrentSecrets() *Secrets {
	return &secrets
}

func CurrentLunchMoneyConfig() *LunchMoneyConfig {
	return &config.LunchMoney
}

func CurrentLunchMoneySecrets() *LunchMoneySecrets {
	return &secrets.LunchMoney
}

func CurrentInfluxSecrets() *InfluxSecrets {
	return &secrets.Influx
}

func CurrentSqlSecrets() *SqlSecrets {
	return &secrets.SQL
}

// Default returns the values used for anything the config file leaves out.
func Default() Config {
	return Config{
		UpdateFrequency: "@every 6h",
		Ledger:          "lunchmoney",
		Venmo: VenmoConfig{
			Currency:     "USD",
			LookbackDays: 30,
		},
		LunchMoney: LunchMoneyConfig{
			BatchSize:          50,
			ApplyRules:         true,
			CheckForRecurring:  true,
			HTTPTimeoutSeconds: 30,
		},
		SQL: SQLConfig{
			Database:     "venmosync",
			EntriesTable: "venmo_transactions",
		},
		Influx: InfluxConfig{
			Database:    "venmosync",
			Measurement: "venmo_sync",
		},
	}
}

// ParseConfig decodes YAML over the defaults and validates the result, skipping the fields
// named in except.
func ParseConfig(raw []byte, except ...string) (*Config, error) {
	c := Default()

	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var err error
	if len(except) > 0 {
		err = validate.StructExcept(c, except...)
	} else {
		err = validate.Struct(c)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &c, nil
}

func readConfig(envName, filename string, except ...string) (*Config, error) {
	var raw []byte
	var err error

	rawEnv := os.Getenv(envName)
	if rawEnv != "" {
		slog.Info("Reading config from environment variable", "env", envName)
		raw = []byte(rawEnv)
	} else {
		raw, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	c, err := ParseConfig(raw, except...)
	if err != nil {
		return nil, err
	}

	config = *c
	return &config, nil
}

func readSecrets(filename string) (*Secrets, error) {
	ejsonSecrets, ejsonErr := readEjsonSecrets(filename)

	envSecrets, envErr := readEnvSecrets()

	if ejsonErr == nil && envErr == nil {
		merged, err := mergeSecrets(envSecrets, ejsonSecrets)
		if err != nil {
			return nil, err
		}
		secrets = *merged
	} else if ejsonErr != nil && envErr == nil {
		slog.Warn("Error parsing ejson secrets, using environment only", "error", ejsonErr)
		secrets = *envSecrets
	} else if ejsonErr == nil && envErr != nil {
		slog.Warn("Error parsing env secrets, using ejson only", "error", envErr)
		secrets = *ejsonSecrets
	} else {
		return nil, fmt.Errorf("Failed to parse secrets. Ejson error: %v. Env error: %v", ejsonErr, envErr)
	}

	return &secrets, nil
}

// mergeSecrets keeps every value set in the environment and fills the rest from ejson.
func mergeSecrets(envSecrets, ejsonSecrets *Secrets) (*Secrets, error) {
	merged := *envSecrets
	if err := mergo.Merge(&merged, *ejsonSecrets); err != nil {
		return nil, fmt.Errorf("Failed to merge secrets: %w", err)
	}
	return &merged, nil
}

func readEjsonSecrets(filename string) (*Secrets, error) {
	ejsonSecrets := Secrets{}
	ejsonKeyFile := os.Getenv(EjsonSecretKeyEnvVar)
	ejsonKey := []byte{}
	var err error

	if ejsonKeyFile != "" {
		ejsonKey, err = os.ReadFile(ejsonKeyFile)
		if err != nil {
			return nil, err
		}
	}
	raw, err := ejson.DecryptFile(filename, ejsonKeyDir, string(ejsonKey))
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(raw, &ejsonSecrets)
	return &ejsonSecrets, err
}

func readEnvSecrets() (*Secrets, error) {
	envSecrets := Secrets{}
	err := env.Parse(&envSecrets)
	return &envSecrets, err
}
