package ecoflow

import "encoding/json"

// envelope is the generic {code, message, data} wrapper returned by every
// EcoFlow endpoint. The code is a JSON string; "0" means success.
type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *envelope) ok() bool {
	return e.Code == "" || e.Code == "0"
}

// Quota is the flat telemetry map returned by the quota endpoints and pushed
// over MQTT. Keys are dot-joined module.field names that vary by product,
// e.g. "bms_bmsStatus.soc" or "inv.outputWatts".
type Quota map[string]any

// Device is an entry in the account's bound-device list.
type Device struct {
	SN          string `json:"sn"`
	DeviceName  string `json:"deviceName,omitempty"`
	ProductName string `json:"productName,omitempty"`
	Online      int    `json:"online"`
}

// IsOnline reports whether the list entry is marked online.
func (d Device) IsOnline() bool {
	return d.Online == 1
}

// OnlineState is the tri-state result of checking a serial number against
// the account's device list.
type OnlineState int

// Online check results.
const (
	// DeviceNotFound means the serial number is not bound to the account.
	DeviceNotFound OnlineState = iota
	DeviceOffline
	DeviceOnline
)

// String implements fmt.Stringer.
func (s OnlineState) String() string {
	switch s {
	case DeviceOnline:
		return "online"
	case DeviceOffline:
		return "offline"
	default:
		return "not found"
	}
}

// MQTTCredentials are the per-account broker credentials issued by the
// certification endpoint.
type MQTTCredentials struct {
	URL                 string `json:"url"`
	Port                string `json:"port"`
	Protocol            string `json:"protocol"`
	CertificateAccount  string `json:"certificateAccount"`
	CertificatePassword string `json:"certificatePassword"`
}

// BrokerURL assembles the broker address in scheme://host:port form.
func (m *MQTTCredentials) BrokerURL() string {
	scheme := m.Protocol
	if scheme == "" {
		scheme = "mqtts"
	}
	return scheme + "://" + m.URL + ":" + m.Port
}
