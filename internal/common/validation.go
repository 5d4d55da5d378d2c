package common

import (
	"fmt"
	"slices"
	"strings"
)

// NormalizeOutputFormat canonicalizes a format flag value for lookup in the
// formatter registry.
func NormalizeOutputFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// ValidateOutputFormat validates a format against the configured supported
// formats. An empty supported list means no restrictions.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil
	}

	if slices.Contains(supportedFormats, NormalizeOutputFormat(format)) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the list of supported formats
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}
