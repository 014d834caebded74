// Package utils holds small process-wide helpers shared across the
// config and transport layers.
package utils

import "os"

// GetEnv reads an environment variable, returning fallback when unset.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
