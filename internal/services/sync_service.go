package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"landlord-service/internal/metrics"
	natsClient "landlord-service/internal/nats"
	redisClient "landlord-service/internal/redis"
	"landlord-service/internal/store"
)

var (
	// ErrSyncInProgress is returned when a sync is requested while another
	// one is still running.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNoDurableBackend is returned when the service runs on the
	// in-memory store and there is nothing to sync with.
	ErrNoDurableBackend = errors.New("no durable backend configured")
)

// SyncResult reports the outcome of a manual sync run.
type SyncResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Properties int    `json:"properties"`
	Tenants    int    `json:"tenants"`
	Payments   int    `json:"payments"`
	Repairs    int    `json:"repairs"`
	SyncedAt   string `json:"synced_at"`
}

// SyncService coordinates on-demand refreshes from the durable backend.
// The backend is the source of truth during a sync: the in-memory
// collections are replaced wholesale with whatever it returns.
type SyncService struct {
	data   *DataService
	cache  *redisClient.Client
	events *natsClient.Client
	logger *logrus.Entry
	busy   atomic.Bool
}

// NewSyncService creates the sync coordinator over the data service.
func NewSyncService(data *DataService, logger *logrus.Logger) *SyncService {
	return &SyncService{
		data:   data,
		logger: logger.WithField("component", "sync_service"),
	}
}

// SetCache wires the optional Redis client used to record the last sync.
func (s *SyncService) SetCache(c *redisClient.Client) { s.cache = c }

// SetEventPublisher wires the optional NATS publisher.
func (s *SyncService) SetEventPublisher(c *natsClient.Client) { s.events = c }

// Busy reports whether a sync is currently running.
func (s *SyncService) Busy() bool { return s.busy.Load() }

// LastSync returns the most recently recorded sync, if Redis is wired and
// holds one.
func (s *SyncService) LastSync(ctx context.Context) (*redisClient.LastSync, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.GetLastSync(ctx)
}

// SyncNow pulls all four entity kinds from the durable backend and replaces
// the in-memory collections. At most one sync runs at a time; concurrent
// requests get ErrSyncInProgress instead of queueing.
func (s *SyncService) SyncNow(ctx context.Context) (SyncResult, error) {
	st := s.data.Store()
	if !st.Durable() {
		return SyncResult{Message: "no durable backend configured"}, ErrNoDurableBackend
	}
	if !s.busy.CompareAndSwap(false, true) {
		return SyncResult{Message: "sync already in progress"}, ErrSyncInProgress
	}
	defer s.busy.Store(false)

	start := time.Now()
	s.logger.WithField("backend", st.Kind()).Info("sync started")

	if !st.TestConnection(ctx) {
		s.recordOutcome(ctx, false, SyncResult{})
		return SyncResult{Message: "backend unreachable"},
			fmt.Errorf("sync failed: %w", store.ErrNotConnected)
	}

	props, err := st.FetchProperties(ctx)
	if err != nil {
		s.recordOutcome(ctx, false, SyncResult{})
		return SyncResult{Message: "failed to fetch properties"}, fmt.Errorf("sync failed: %w", err)
	}
	tenants, err := st.FetchTenants(ctx)
	if err != nil {
		s.recordOutcome(ctx, false, SyncResult{})
		return SyncResult{Message: "failed to fetch tenants"}, fmt.Errorf("sync failed: %w", err)
	}
	pays, err := st.FetchPayments(ctx)
	if err != nil {
		s.recordOutcome(ctx, false, SyncResult{})
		return SyncResult{Message: "failed to fetch payments"}, fmt.Errorf("sync failed: %w", err)
	}
	repairs, err := st.FetchRepairs(ctx)
	if err != nil {
		s.recordOutcome(ctx, false, SyncResult{})
		return SyncResult{Message: "failed to fetch repair requests"}, fmt.Errorf("sync failed: %w", err)
	}

	s.data.ReplaceAll(props, tenants, pays, repairs)

	result := SyncResult{
		Success:    true,
		Message:    "sync completed",
		Properties: len(props),
		Tenants:    len(tenants),
		Payments:   len(pays),
		Repairs:    len(repairs),
		SyncedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	s.recordOutcome(ctx, true, result)

	s.logger.WithFields(logrus.Fields{
		"properties": result.Properties,
		"tenants":    result.Tenants,
		"payments":   result.Payments,
		"repairs":    result.Repairs,
		"duration":   time.Since(start).String(),
	}).Info("sync completed")
	return result, nil
}

func (s *SyncService) recordOutcome(ctx context.Context, success bool, result SyncResult) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	metrics.SyncRunsTotal.WithLabelValues(outcome).Inc()

	s.events.PublishSyncCompleted(success, result.Properties, result.Tenants, result.Payments, result.Repairs)

	if s.cache != nil {
		last := &redisClient.LastSync{
			Success:    success,
			Message:    result.Message,
			Properties: result.Properties,
			Tenants:    result.Tenants,
			Payments:   result.Payments,
			Repairs:    result.Repairs,
			SyncedAt:   time.Now().UTC(),
		}
		if err := s.cache.SaveLastSync(ctx, last); err != nil {
			s.logger.WithError(err).Warn("failed to record last sync")
		}
	}
}
