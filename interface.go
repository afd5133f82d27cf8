package ecoflow

import "context"

// DeviceAPI defines the interface for EcoFlow API operations.
// Client implements this interface, enabling mocking for tests.
type DeviceAPI interface {
	// Device operations
	ListDevices(ctx context.Context) ([]Device, error)
	GetDeviceQuota(ctx context.Context, sn string) (Quota, error)
	IsDeviceOnline(ctx context.Context, sn string) (OnlineState, error)
	SetDeviceFunction(ctx context.Context, sn, cmdCode string, params map[string]any) error

	// MQTT credential issuance
	GetMQTTCredentials(ctx context.Context) (*MQTTCredentials, error)
}

// Compile-time interface check.
var _ DeviceAPI = (*Client)(nil)
