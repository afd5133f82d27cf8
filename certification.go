package ecoflow

import "context"

const pathCertification = "/iot-open/sign/certification"

// GetMQTTCredentials requests MQTT broker credentials for the account.
// The broker pushes device quota updates; pass the credentials to
// NewQuotaStream to consume them.
func (c *Client) GetMQTTCredentials(ctx context.Context) (*MQTTCredentials, error) {
	var creds MQTTCredentials
	if err := c.get(ctx, pathCertification, nil, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
