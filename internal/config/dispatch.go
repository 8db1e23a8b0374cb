package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvDispatchResponsibleDeptID = "DATASTEP_DISPATCH_RESPONSIBLE_DEPT_ID"
	EnvDispatchInspectorUserID   = "DATASTEP_DISPATCH_INSPECTOR_USER_ID"
)

// DispatchConfig holds the Domyland reassignment targets for emergency orders.
type DispatchConfig struct {
	// ResponsibleDeptID is the department emergency orders are assigned to
	// ("Администрация").
	ResponsibleDeptID int64 `toml:"responsible_dept_id"`
	// InspectorUserID is the AI service account recorded as order inspector.
	InspectorUserID int64 `toml:"inspector_user_id"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DispatchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DispatchConfig) Merge(overlay *DispatchConfig) {
	if overlay.ResponsibleDeptID != 0 {
		c.ResponsibleDeptID = overlay.ResponsibleDeptID
	}
	if overlay.InspectorUserID != 0 {
		c.InspectorUserID = overlay.InspectorUserID
	}
}

func (c *DispatchConfig) loadDefaults() {
	if c.ResponsibleDeptID == 0 {
		c.ResponsibleDeptID = 38
	}
	if c.InspectorUserID == 0 {
		c.InspectorUserID = 15698
	}
}

func (c *DispatchConfig) loadEnv() {
	if v := os.Getenv(EnvDispatchResponsibleDeptID); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.ResponsibleDeptID = id
		}
	}
	if v := os.Getenv(EnvDispatchInspectorUserID); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.InspectorUserID = id
		}
	}
}

func (c *DispatchConfig) validate() error {
	if c.ResponsibleDeptID < 1 {
		return fmt.Errorf("invalid responsible_dept_id: %d", c.ResponsibleDeptID)
	}
	if c.InspectorUserID < 1 {
		return fmt.Errorf("invalid inspector_user_id: %d", c.InspectorUserID)
	}
	return nil
}
