// Package ecoflow provides a Go client library for the EcoFlow IoT Open API.
//
// The library covers the signed device-control endpoints of the EcoFlow cloud:
// listing the devices bound to an account, reading device telemetry (quotas),
// checking whether a device is online, and sending device commands. It also
// supports the MQTT certification endpoint, which issues per-account broker
// credentials for streaming quota updates.
//
// # Authentication
//
// Every request is authenticated with an HMAC-SHA256 signature computed over a
// canonical form of the request parameters plus the accessKey, nonce, and
// timestamp headers. The client handles this transparently; you only supply
// the access key pair from the EcoFlow developer portal:
//
//	client, err := ecoflow.NewClient(accessKey, secretKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Basic Usage
//
// List all devices:
//
//	devices, err := client.ListDevices(ctx)
//	for _, device := range devices {
//	    fmt.Printf("Device: %s (%s)\n", device.DeviceName, device.SN)
//	}
//
// Read telemetry:
//
//	quota, err := client.GetDeviceQuota(ctx, sn)
//	soc, ok := ecoflow.GetFloat(quota, "bms_bmsStatus.soc")
//
// Send a command:
//
//	err := client.SetDeviceFunction(ctx, sn, "WN511_SET_SUPPLY_PRIORITY_PACK",
//	    map[string]any{"supplyPriority": 0})
//
// Check whether a device is online:
//
//	state, err := client.IsDeviceOnline(ctx, sn)
//	switch state {
//	case ecoflow.DeviceOnline:
//	    // ...
//	case ecoflow.DeviceOffline:
//	    // ...
//	case ecoflow.DeviceNotFound:
//	    // serial number is not bound to this account
//	}
//
// # Telemetry Streaming
//
// The cloud pushes quota updates over MQTT. Request broker credentials and
// subscribe:
//
//	creds, err := client.GetMQTTCredentials(ctx)
//	stream := ecoflow.NewQuotaStream(creds)
//	if err := stream.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	updates, err := stream.Subscribe(sn)
//	for update := range updates {
//	    fmt.Println(update.SN, update.Params)
//	}
//
// # Error Handling
//
// Check for specific error types:
//
//	quota, err := client.GetDeviceQuota(ctx, sn)
//	if err != nil {
//	    if ecoflow.IsTransport(err) {
//	        // network or TLS failure
//	    } else if ecoflow.IsDecode(err) {
//	        // response body was not valid JSON
//	    } else if ecoflow.IsUnauthorized(err) {
//	        // bad access key or signature
//	    }
//	}
//
// The client performs no retries and sets no default timeout; impose both
// through the context or the WithTimeout option.
//
// For more information, see https://developer-eu.ecoflow.com/us/document/
package ecoflow
