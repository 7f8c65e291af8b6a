// Package config reads application settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	CurrencySymbol       string
	ProposalNumberPrefix string
	DefaultTaxRate       float64
	ValidityDays         int
	SeedDemo             bool
}

// Load reads the PROPOSAL_* environment variables. A missing .env file is
// not an error.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using system environment variables")
	}

	return &Config{
		CurrencySymbol:       envString("PROPOSAL_CURRENCY_SYMBOL", "$"),
		ProposalNumberPrefix: envString("PROPOSAL_NUMBER_PREFIX", "PRP"),
		DefaultTaxRate:       envFloat("PROPOSAL_DEFAULT_TAX_RATE", 0),
		ValidityDays:         envInt("PROPOSAL_VALIDITY_DAYS", 30),
		SeedDemo:             envBool("PROPOSAL_SEED_DEMO", true),
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v: %v", key, raw, def, err)
		return def
	}
	return v
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := cast.ToIntE(raw)
	if err != nil || v < 0 {
		log.Printf("config: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %t: %v", key, raw, def, err)
		return def
	}
	return v
}
