// Package nats publishes entity lifecycle events so downstream consumers
// (notification senders, reporting) can react without polling. Publishing is
// best-effort: a nil client or a failed publish never fails the operation
// that triggered it.
package nats

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"landlord-service/internal/models"
)

// Event subjects
const (
	EventPropertyCreated   = "landlord.property.created"
	EventPropertyDeleted   = "landlord.property.deleted"
	EventTenantCreated     = "landlord.tenant.created"
	EventTenantDeleted     = "landlord.tenant.deleted"
	EventPaymentsGenerated = "landlord.payments.generated"
	EventSyncCompleted     = "landlord.sync.completed"
)

// PropertyEvent is published when a property is created or deleted
type PropertyEvent struct {
	EventType  string    `json:"event_type"`
	PropertyID string    `json:"property_id"`
	Address    string    `json:"address"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// TenantEvent is published when a tenant is created or deleted
type TenantEvent struct {
	EventType  string    `json:"event_type"`
	TenantID   string    `json:"tenant_id"`
	PropertyID string    `json:"property_id"`
	Name       string    `json:"name"`
	LeaseEnd   string    `json:"lease_end"`
	Timestamp  time.Time `json:"timestamp"`
}

// PaymentsGeneratedEvent is published after a generation run persists at
// least one payment
type PaymentsGeneratedEvent struct {
	EventType string    `json:"event_type"`
	Month     string    `json:"month"`
	Generated int       `json:"generated"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncCompletedEvent is published after a full pull-and-replace sync
type SyncCompletedEvent struct {
	EventType  string    `json:"event_type"`
	Success    bool      `json:"success"`
	Properties int       `json:"properties"`
	Tenants    int       `json:"tenants"`
	Payments   int       `json:"payments"`
	Repairs    int       `json:"repairs"`
	Timestamp  time.Time `json:"timestamp"`
}

// Client wraps the NATS connection
type Client struct {
	conn *nats.Conn
}

// Config holds NATS connection configuration
type Config struct {
	URL string
}

// DefaultConfig returns the default NATS configuration
func DefaultConfig() *Config {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	return &Config{URL: url}
}

// NewClient creates a new NATS client
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	log.Printf("[NATS] Connecting to %s", cfg.URL)

	opts := []nats.Option{
		nats.Name("landlord-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("[NATS] Disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[NATS] Reconnected to %s", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

// Close drains and closes the connection
func (c *Client) Close() {
	if c == nil || c.conn == nil {
		return
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
}

// Connected reports whether the underlying connection is up
func (c *Client) Connected() bool {
	return c != nil && c.conn != nil && c.conn.IsConnected()
}

// publish marshals and publishes an event; failures are logged, never
// propagated.
func (c *Client) publish(subject string, event interface{}) {
	if c == nil || c.conn == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[NATS] Failed to marshal event %s: %v", subject, err)
		return
	}
	if err := c.conn.Publish(subject, data); err != nil {
		log.Printf("[NATS] Failed to publish %s: %v", subject, err)
	}
}

// PublishPropertyCreated announces a new property
func (c *Client) PublishPropertyCreated(p models.Property) {
	c.publish(EventPropertyCreated, PropertyEvent{
		EventType:  EventPropertyCreated,
		PropertyID: p.ID,
		Address:    p.Address,
		Status:     string(p.Status),
		Timestamp:  time.Now().UTC(),
	})
}

// PublishPropertyDeleted announces a removed property
func (c *Client) PublishPropertyDeleted(p models.Property) {
	c.publish(EventPropertyDeleted, PropertyEvent{
		EventType:  EventPropertyDeleted,
		PropertyID: p.ID,
		Address:    p.Address,
		Status:     string(p.Status),
		Timestamp:  time.Now().UTC(),
	})
}

// PublishTenantCreated announces a new lease
func (c *Client) PublishTenantCreated(t models.Tenant) {
	c.publish(EventTenantCreated, TenantEvent{
		EventType:  EventTenantCreated,
		TenantID:   t.ID,
		PropertyID: t.PropertyID,
		Name:       t.Name,
		LeaseEnd:   t.LeaseEnd,
		Timestamp:  time.Now().UTC(),
	})
}

// PublishTenantDeleted announces an ended lease
func (c *Client) PublishTenantDeleted(t models.Tenant) {
	c.publish(EventTenantDeleted, TenantEvent{
		EventType:  EventTenantDeleted,
		TenantID:   t.ID,
		PropertyID: t.PropertyID,
		Name:       t.Name,
		LeaseEnd:   t.LeaseEnd,
		Timestamp:  time.Now().UTC(),
	})
}

// PublishPaymentsGenerated announces a generation run
func (c *Client) PublishPaymentsGenerated(month string, generated int) {
	c.publish(EventPaymentsGenerated, PaymentsGeneratedEvent{
		EventType: EventPaymentsGenerated,
		Month:     month,
		Generated: generated,
		Timestamp: time.Now().UTC(),
	})
}

// PublishSyncCompleted announces a finished sync with the replaced counts
func (c *Client) PublishSyncCompleted(success bool, properties, tenants, payments, repairs int) {
	c.publish(EventSyncCompleted, SyncCompletedEvent{
		EventType:  EventSyncCompleted,
		Success:    success,
		Properties: properties,
		Tenants:    tenants,
		Payments:   payments,
		Repairs:    repairs,
		Timestamp:  time.Now().UTC(),
	})
}
