// AngelaMos | 2026
// device.go

package auth

import (
	"strings"

	surfer "github.com/avct/uasurfer"
)

const (
	deviceDesktop = "Desktop"
	deviceTablet  = "Tablet"
	deviceMobile  = "Mobile"
	deviceOther   = "Other"
)

// Device is the part of a User-Agent shown in the session list.
type Device struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Kind    string `json:"kind"`
	IsBot   bool   `json:"is_bot"`
}

func ParseDevice(raw string) Device {
	if raw == "" {
		return Device{Kind: deviceOther}
	}

	ua := surfer.Parse(raw)

	d := Device{
		Browser: trimUnknown(ua.Browser.Name.String(), "Browser"),
		OS:      trimUnknown(ua.OS.Name.String(), "OS"),
		IsBot:   ua.IsBot(),
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		d.Kind = deviceDesktop
	case surfer.DeviceTablet:
		d.Kind = deviceTablet
	case surfer.DevicePhone, surfer.DeviceWearable:
		d.Kind = deviceMobile
	default:
		d.Kind = deviceOther
	}

	return d
}

// trimUnknown turns uasurfer enum names like "BrowserChrome" into "Chrome".
func trimUnknown(name, prefix string) string {
	name = strings.TrimPrefix(name, prefix)
	if name == "Unknown" {
		return ""
	}
	return name
}
