package ecoflow

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const defaultStreamTimeout = 30 * time.Second

// QuotaUpdate is one telemetry push from the broker.
type QuotaUpdate struct {
	SN        string
	Timestamp time.Time
	Params    Quota
}

// quotaMessage is the wire form of a quota push.
type quotaMessage struct {
	ID        json.Number    `json:"id"`
	Version   string         `json:"version"`
	Timestamp int64          `json:"timestamp"`
	Params    map[string]any `json:"params"`
}

// QuotaStream subscribes to device quota updates over MQTT using the
// credentials issued by Client.GetMQTTCredentials.
type QuotaStream struct {
	creds   *MQTTCredentials
	client  mqtt.Client
	timeout time.Duration
	updates chan QuotaUpdate
}

// StreamOption configures a QuotaStream.
type StreamOption func(*QuotaStream)

// WithConnectTimeout sets the broker connect/subscribe timeout (default 30s).
func WithConnectTimeout(timeout time.Duration) StreamOption {
	return func(s *QuotaStream) {
		s.timeout = timeout
	}
}

// NewQuotaStream creates a quota subscriber for the given broker credentials.
// Call Connect before Subscribe, and Close when done.
func NewQuotaStream(creds *MQTTCredentials, opts ...StreamOption) *QuotaStream {
	s := &QuotaStream{
		creds:   creds,
		timeout: defaultStreamTimeout,
		updates: make(chan QuotaUpdate, 16),
	}
	for _, opt := range opts {
		opt(s)
	}

	// The broker requires a unique client ID per connection.
	clientID := fmt.Sprintf("%s_%d", creds.CertificateAccount, time.Now().UnixNano())

	mopt := mqtt.NewClientOptions().
		AddBroker(creds.BrokerURL()).
		SetClientID(clientID).
		SetUsername(creds.CertificateAccount).
		SetPassword(creds.CertificatePassword).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(s.timeout).
		SetKeepAlive(s.timeout / 2).
		SetOrderMatters(false).
		SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	s.client = mqtt.NewClient(mopt)

	return s
}

// Connect dials the broker.
func (s *QuotaStream) Connect() error {
	return tokenWait(s.client.Connect(), s.timeout, "connect")
}

// Subscribe starts delivery of quota updates for sn on the returned channel.
// Updates that arrive while the consumer is not draining the channel are
// dropped. Multiple serial numbers may be subscribed on the same stream; all
// share one channel.
func (s *QuotaStream) Subscribe(sn string) (<-chan QuotaUpdate, error) {
	if sn == "" {
		return nil, ErrEmptySerialNumber
	}

	topic := quotaTopic(s.creds.CertificateAccount, sn)
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		update, err := decodeQuotaMessage(sn, msg.Payload())
		if err != nil {
			return
		}
		select {
		case s.updates <- update:
		default:
		}
	}

	if err := tokenWait(s.client.Subscribe(topic, 1, handler), s.timeout, "subscribe "+topic); err != nil {
		return nil, err
	}
	return s.updates, nil
}

// Close disconnects from the broker. The update channel is left open so that
// in-flight handler deliveries cannot panic; consumers should stop reading
// after Close returns.
func (s *QuotaStream) Close() {
	s.client.Disconnect(250)
}

// quotaTopic builds the per-device quota topic.
func quotaTopic(account, sn string) string {
	return fmt.Sprintf("/open/%s/%s/quota", account, sn)
}

// decodeQuotaMessage parses a quota push payload.
func decodeQuotaMessage(sn string, payload []byte) (QuotaUpdate, error) {
	var msg quotaMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return QuotaUpdate{}, &DecodeError{Resource: "quota update", Err: err, Body: truncatePreview(payload)}
	}

	update := QuotaUpdate{SN: sn, Params: msg.Params}
	if msg.Timestamp > 0 {
		update.Timestamp = time.UnixMilli(msg.Timestamp)
	}
	return update, nil
}

// tokenWait waits for an MQTT operation to finish within timeout.
func tokenWait(t mqtt.Token, timeout time.Duration, op string) error {
	if !t.WaitTimeout(timeout) {
		return fmt.Errorf("ecoflow: mqtt %s: timed out after %s", op, timeout)
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("ecoflow: mqtt %s: %w", op, err)
	}
	return nil
}
