package config

import (
	"fmt"
	"strings"
)

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if n := len(c.PythonVersion); n == 0 || n > 3 {
		return fmt.Errorf("python_version must have 1 to 3 components, got %q", c.PythonVersion.String())
	}
	if strings.TrimSpace(c.Platform) == "" {
		return fmt.Errorf("platform is required")
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.OutputFormat != "" {
		valid := false
		for _, o := range validOutputs {
			if c.OutputFormat == o {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown output format %q (valid: %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
		}
	}
	return nil
}
