package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Operator identity variables, consulted in order.
const (
	OperatorPrimaryEnv   = "USERNAME"
	OperatorSecondaryEnv = "USER"
	UnknownOperator      = "Unknown"
)

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ResolveOperator returns the identity of whoever runs the harness: the primary
// variable, then the secondary one, then UnknownOperator. Empty values count as unset.
func ResolveOperator(lookup LookupFunc) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range []string{OperatorPrimaryEnv, OperatorSecondaryEnv} {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}
	return UnknownOperator
}

// DefaultEnvFile is the environment file looked up when none is given.
const DefaultEnvFile = ".env"

// LoadDotEnv loads variables from an environment file without overriding ones
// already set. A missing file at the default location is not an error.
func LoadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); !explicit && os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
