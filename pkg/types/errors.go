// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConfigError reports an invalid run configuration. It is fatal: the
// pipeline refuses to start rather than process any page with it.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}
