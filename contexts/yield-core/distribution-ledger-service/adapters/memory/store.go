package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"yieldbook/contexts/yield-core/distribution-ledger-service/domain/entities"
	domainerrors "yieldbook/contexts/yield-core/distribution-ledger-service/domain/errors"
	"yieldbook/contexts/yield-core/distribution-ledger-service/ports"

	"github.com/google/uuid"
)

const (
	defaultCostCeilingUnits  = 500
	defaultPerOwnerCostUnits = 10
)

type outboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	SentAt       *time.Time
}

// Store is the in-memory runtime for the ledger. One mutex guards every
// commit, which reproduces the single-operation-atomic host model the ledger
// was designed for.
//
// Besides the repository it doubles as the seedable balance oracle, asset
// directory, and policy source so the module can run self-contained in tests.
type Store struct {
	mu sync.RWMutex

	periods  map[string]entities.Period
	claims   map[string]entities.ClaimRecord
	marks    map[string]entities.AccrualMark
	accruals map[string]entities.UnclaimedAccrual
	balances map[string]int64
	assets   map[string]ports.AssetInfo
	lastRun  map[string]time.Time
	outbox   map[string]outboxRecord
	policy   ports.DistributionPolicy
}

func NewStore(adminID string) *Store {
	return &Store{
		periods:  make(map[string]entities.Period),
		claims:   make(map[string]entities.ClaimRecord),
		marks:    make(map[string]entities.AccrualMark),
		accruals: make(map[string]entities.UnclaimedAccrual),
		balances: make(map[string]int64),
		assets:   make(map[string]ports.AssetInfo),
		lastRun:  make(map[string]time.Time),
		outbox:   make(map[string]outboxRecord),
		policy: ports.DistributionPolicy{
			AdminID:           strings.TrimSpace(adminID),
			CostCeilingUnits:  defaultCostCeilingUnits,
			PerOwnerCostUnits: defaultPerOwnerCostUnits,
		},
	}
}

// SeedAsset registers an asset snapshot for directory lookups.
func (s *Store) SeedAsset(assetID string, totalShares int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[assetID] = ports.AssetInfo{
		ID:          assetID,
		TotalShares: totalShares,
		Active:      active,
	}
}

// SetBalance seeds the oracle's share balance for (asset, owner).
func (s *Store) SetBalance(assetID string, ownerID string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[assetID+"|"+ownerID] = balance
}

// SetPolicy overrides the distribution policy used for admin and cost checks.
func (s *Store) SetPolicy(policy ports.DistributionPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = policy
}

func (s *Store) CommitPeriod(_ context.Context, period entities.Period, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey(period.AssetID, period.Label)
	if _, exists := s.periods[key]; exists {
		return domainerrors.ErrPeriodExists
	}
	s.periods[key] = period
	return s.appendOutboxLocked(envelope)
}

func (s *Store) GetPeriod(_ context.Context, assetID string, label string) (entities.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	period, exists := s.periods[periodKey(assetID, label)]
	if !exists {
		return entities.Period{}, domainerrors.ErrPeriodNotFound
	}
	return period, nil
}

func (s *Store) ListPeriods(_ context.Context, assetID string) ([]entities.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	periods := make([]entities.Period, 0)
	for _, period := range s.periods {
		if period.AssetID == assetID {
			periods = append(periods, period)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Label < periods[j].Label
	})
	return periods, nil
}

func (s *Store) MarkPeriodSettled(_ context.Context, assetID string, label string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey(assetID, label)
	period, exists := s.periods[key]
	if !exists {
		return domainerrors.ErrPeriodNotFound
	}
	settled := at.UTC()
	period.Settled = true
	period.SettledAt = &settled
	s.periods[key] = period
	return nil
}

func (s *Store) CommitClaim(_ context.Context, claim entities.ClaimRecord, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entitlementKey(claim.AssetID, claim.OwnerID, claim.PeriodLabel)
	if _, exists := s.claims[key]; exists {
		return domainerrors.ErrAlreadyClaimed
	}
	// An accrual mark committed after the caller's entitlement check still
	// owns the slot; re-check it under the lock.
	if _, exists := s.marks[key]; exists {
		return domainerrors.ErrAlreadyClaimed
	}
	s.claims[key] = claim
	return s.appendOutboxLocked(envelope)
}

func (s *Store) GetClaim(_ context.Context, assetID string, ownerID string, label string) (entities.ClaimRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, exists := s.claims[entitlementKey(assetID, ownerID, label)]
	return claim, exists, nil
}

func (s *Store) ListClaimsByOwner(_ context.Context, assetID string, ownerID string) ([]entities.ClaimRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claims := make([]entities.ClaimRecord, 0)
	for _, claim := range s.claims {
		if claim.AssetID == assetID && claim.OwnerID == ownerID {
			claims = append(claims, claim)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].PeriodLabel < claims[j].PeriodLabel
	})
	return claims, nil
}

func (s *Store) HasEntitlementRecord(_ context.Context, assetID string, ownerID string, label string) (bool, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := entitlementKey(assetID, ownerID, label)
	_, claimed := s.claims[key]
	_, accrued := s.marks[key]
	return claimed, accrued, nil
}

func (s *Store) CommitAccrual(_ context.Context, mark entities.AccrualMark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entitlementKey(mark.AssetID, mark.OwnerID, mark.PeriodLabel)
	if _, exists := s.marks[key]; exists {
		return domainerrors.ErrAlreadyAccrued
	}
	if _, exists := s.claims[key]; exists {
		return domainerrors.ErrAlreadyAccrued
	}
	s.marks[key] = mark

	accrualKey := accrualKey(mark.AssetID, mark.OwnerID)
	accrual, exists := s.accruals[accrualKey]
	if !exists {
		accrual = entities.UnclaimedAccrual{
			AssetID: mark.AssetID,
			OwnerID: mark.OwnerID,
		}
	}
	accrual.TotalUnclaimed += mark.Amount
	accrual.UpdatedAt = mark.AccruedAt
	s.accruals[accrualKey] = accrual
	return nil
}

func (s *Store) GetAccrual(_ context.Context, assetID string, ownerID string) (entities.UnclaimedAccrual, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accrual, exists := s.accruals[accrualKey(assetID, ownerID)]
	return accrual, exists, nil
}

func (s *Store) DrainAccrual(
	_ context.Context,
	assetID string,
	ownerID string,
	at time.Time,
	buildEnvelope func(amount int64) (ports.EventEnvelope, error),
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accrualKey(assetID, ownerID)
	accrual, exists := s.accruals[key]
	if !exists || accrual.TotalUnclaimed <= 0 {
		return 0, nil
	}

	drained := accrual.TotalUnclaimed
	envelope, err := buildEnvelope(drained)
	if err != nil {
		return 0, err
	}
	accrual.TotalUnclaimed = 0
	accrual.UpdatedAt = at.UTC()
	s.accruals[key] = accrual
	if err := s.appendOutboxLocked(envelope); err != nil {
		return 0, err
	}
	return drained, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendOutboxLocked(envelope)
}

func (s *Store) appendOutboxLocked(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := uuid.NewString()
	s.outbox[outboxID] = outboxRecord{
		OutboxID:     outboxID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	pending := make([]ports.OutboxMessage, 0, limit)
	for _, record := range s.outbox {
		if record.SentAt != nil {
			continue
		}
		pending = append(pending, ports.OutboxMessage{
			OutboxID:     record.OutboxID,
			EventType:    record.EventType,
			PartitionKey: record.PartitionKey,
			Payload:      record.Payload,
			CreatedAt:    record.CreatedAt,
		})
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.outbox[outboxID]
	if !exists {
		return domainerrors.ErrAccrualRecordMissing
	}
	sent := sentAt.UTC()
	record.SentAt = &sent
	s.outbox[outboxID] = record
	return nil
}

func (s *Store) Balance(_ context.Context, assetID string, ownerID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[assetID+"|"+ownerID], nil
}

func (s *Store) AssetInfo(_ context.Context, assetID string) (ports.AssetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.assets[assetID]
	if !exists {
		return ports.AssetInfo{}, domainerrors.ErrAssetNotFound
	}
	return info, nil
}

func (s *Store) RecordDistribution(_ context.Context, assetID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[assetID]; !exists {
		return domainerrors.ErrAssetNotFound
	}
	s.lastRun[assetID] = at.UTC()
	return nil
}

func (s *Store) Policy(_ context.Context) (ports.DistributionPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func periodKey(assetID string, label string) string {
	return assetID + "|" + label
}

func entitlementKey(assetID string, ownerID string, label string) string {
	return assetID + "|" + ownerID + "|" + label
}

func accrualKey(assetID string, ownerID string) string {
	return assetID + "|" + ownerID
}

var _ ports.Repository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.BalanceOracle = (*Store)(nil)
var _ ports.AssetDirectory = (*Store)(nil)
var _ ports.PolicySource = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
