// Package misc holds small helpers with no better home.
package misc

import "os"

// Getenv returns the environment value for key, or def when it is unset or empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
