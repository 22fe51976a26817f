package env

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func TrySetFromEnv(envName string, val *string) {
	if envVal, found := os.LookupEnv(envName); found {
		*val = envVal
	}
}

func TrySetBoolFromEnv(envName string, val *bool) error {
	envVal, found := os.LookupEnv(envName)
	if !found {
		return nil
	}

	parsed, err := strconv.ParseBool(envVal)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", envName, err)
	}

	*val = parsed
	return nil
}

func TrySetDurationFromEnv(envName string, val *time.Duration) error {
	envVal, found := os.LookupEnv(envName)
	if !found {
		return nil
	}

	parsed, err := time.ParseDuration(envVal)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", envName, err)
	}

	*val = parsed
	return nil
}
