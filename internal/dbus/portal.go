package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	portalBusName   = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalSettings  = "org.freedesktop.portal.Settings"
	appearanceNS    = "org.freedesktop.appearance"
	colorSchemeKey  = "color-scheme"
	colorSchemeDark = 1 // 0 = no preference, 1 = dark, 2 = light
)

// PortalPreference reads the colour scheme from the XDG desktop portal.
// It satisfies theme.PreferenceSource.
type PortalPreference struct {
	conn *dbus.Conn
}

// NewPortalPreference creates a PortalPreference using conn.
func NewPortalPreference(conn *dbus.Conn) *PortalPreference {
	return &PortalPreference{conn: conn}
}

// PrefersDark reports whether the desktop asks for a dark colour scheme.
func (p *PortalPreference) PrefersDark(ctx context.Context) (bool, error) {
	obj := p.conn.Object(portalBusName, portalPath)

	var v dbus.Variant
	err := obj.CallWithContext(ctx, portalSettings+".ReadOne", 0, appearanceNS, colorSchemeKey).Store(&v)
	if err != nil {
		// ReadOne is newer; Read wraps the value in a second variant.
		if err2 := obj.CallWithContext(ctx, portalSettings+".Read", 0, appearanceNS, colorSchemeKey).Store(&v); err2 != nil {
			return false, fmt.Errorf("failed to read %s: %w", colorSchemeKey, err)
		}
	}

	scheme, ok := colorScheme(v)
	if !ok {
		return false, fmt.Errorf("unexpected %s value %s", colorSchemeKey, v.String())
	}
	return scheme == colorSchemeDark, nil
}

// colorScheme unwraps nested variants down to the uint32 value.
func colorScheme(v dbus.Variant) (uint32, bool) {
	for range 3 {
		switch val := v.Value().(type) {
		case uint32:
			return val, true
		case dbus.Variant:
			v = val
		default:
			return 0, false
		}
	}
	return 0, false
}
