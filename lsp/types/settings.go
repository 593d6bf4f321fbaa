package types

import (
	"encoding/json"
	"fmt"

	"bennypowers.dev/filterfallback/internal/config"
)

// SettingsSection is the key clients nest settings under
const SettingsSection = "filterFallback"

// ParseSettings overlays client settings on base. The settings may be
// nested under SettingsSection or "filter-fallback", or be the section
// itself as sent in initializationOptions.
func ParseSettings(base config.Config, settings any) (config.Config, error) {
	if settings == nil {
		return base, nil
	}

	m, ok := settings.(map[string]any)
	if !ok {
		return base, fmt.Errorf("settings is not an object: %T", settings)
	}

	section := any(m)
	if v, exists := m[SettingsSection]; exists {
		section = v
	} else if v, exists := m[ServerName]; exists {
		section = v
	}
	if section == nil {
		return base, nil
	}

	data, err := json.Marshal(section)
	if err != nil {
		return base, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return base.WithJSON(data, "client settings")
}
