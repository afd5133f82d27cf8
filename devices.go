package ecoflow

import "context"

// API endpoint paths.
const (
	pathDeviceList     = "/iot-open/sign/device/list"
	pathDeviceQuota    = "/iot-open/sign/device/quota"
	pathDeviceQuotaAll = "/iot-open/sign/device/quota/all"
)

// ListDevices returns all devices bound to the account.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := c.get(ctx, pathDeviceList, nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetDeviceQuota returns all telemetry quotas currently reported by a device.
// The returned map is keyed by dot-joined module.field names.
func (c *Client) GetDeviceQuota(ctx context.Context, sn string) (Quota, error) {
	if sn == "" {
		return nil, ErrEmptySerialNumber
	}
	var quota Quota
	if err := c.get(ctx, pathDeviceQuotaAll, map[string]any{"sn": sn}, &quota); err != nil {
		return nil, err
	}
	return quota, nil
}

// IsDeviceOnline checks the device list for sn and reports its state.
// DeviceNotFound means the serial number is not bound to the account.
func (c *Client) IsDeviceOnline(ctx context.Context, sn string) (OnlineState, error) {
	if sn == "" {
		return DeviceNotFound, ErrEmptySerialNumber
	}
	devices, err := c.ListDevices(ctx)
	if err != nil {
		return DeviceNotFound, err
	}

	device := FindDeviceBySN(devices, sn)
	switch {
	case device == nil:
		return DeviceNotFound, nil
	case device.IsOnline():
		return DeviceOnline, nil
	default:
		return DeviceOffline, nil
	}
}

// SetDeviceFunction sends a command to a device. cmdCode selects the function
// and params carries its arguments, which vary by product.
//
// Example:
//
//	err := client.SetDeviceFunction(ctx, sn, "WN511_SET_SUPPLY_PRIORITY_PACK",
//	    map[string]any{"supplyPriority": 0})
func (c *Client) SetDeviceFunction(ctx context.Context, sn, cmdCode string, params map[string]any) error {
	if sn == "" {
		return ErrEmptySerialNumber
	}
	if cmdCode == "" {
		return ErrEmptyCommandCode
	}

	body := map[string]any{
		"sn":      sn,
		"cmdCode": cmdCode,
	}
	if params != nil {
		body["params"] = params
	}
	return c.put(ctx, pathDeviceQuota, body, nil)
}

// FilterDevices returns devices matching the given filter function.
func FilterDevices(devices []Device, filter func(Device) bool) []Device {
	result := make([]Device, 0, len(devices))
	for _, d := range devices {
		if filter(d) {
			result = append(result, d)
		}
	}
	return result
}

// FilterOnline returns only the devices marked online.
func FilterOnline(devices []Device) []Device {
	return FilterDevices(devices, Device.IsOnline)
}

// FindDeviceBySN returns the device with the given serial number.
// Returns a pointer to the device in the slice, or nil if not found.
func FindDeviceBySN(devices []Device, sn string) *Device {
	for i := range devices {
		if devices[i].SN == sn {
			return &devices[i]
		}
	}
	return nil
}
