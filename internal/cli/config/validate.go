package config

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

// Validate checks the dialect and timezone. The target is validated only
// by commands that connect, so rendering works without one.
func (c *Config) Validate() error {
	if _, err := dialect.Lookup(c.Dialect); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// ValidateTarget checks the target before connecting.
func (c *Config) ValidateTarget() error {
	if c.Target == nil {
		return fmt.Errorf("no target configured\nHint: add a target section to dorisql.yaml or pass --host")
	}
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}
