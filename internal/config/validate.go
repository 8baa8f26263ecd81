package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: window size %dx%d must be positive",
			c.Graphics.Width, c.Graphics.Height))
	}
	switch c.Graphics.Backend {
	case BackendGL, BackendVulkan, BackendSoft:
	default:
		err = multierr.Append(err, fmt.Errorf("graphics: unknown backend %q", c.Graphics.Backend))
	}
	if c.Graphics.FPSLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: fps_limit %d is negative", c.Graphics.FPSLimit))
	}
	if c.Debug.Frames < 0 {
		err = multierr.Append(err, fmt.Errorf("debug: frames %d is negative", c.Debug.Frames))
	}
	if c.Debug.Headless && c.Graphics.Backend == BackendGL {
		err = multierr.Append(err, fmt.Errorf("debug: headless runs need the soft or vulkan backend"))
	}
	return err
}
