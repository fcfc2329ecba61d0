package ports

import (
	"context"
	"time"

	contractsv1 "yieldbook/contracts/gen/events/v1"

	"yieldbook/contexts/yield-core/distribution-ledger-service/domain/entities"
)

// AssetInfo is the slice of asset state the ledger needs: share denominator
// and the active flag.
type AssetInfo struct {
	ID          string
	TotalShares int64
	Active      bool
}

// AssetDirectory is implemented by the asset registry. The ledger never owns
// asset rows; it reads the denominator and reports distribution runs back.
type AssetDirectory interface {
	AssetInfo(ctx context.Context, assetID string) (AssetInfo, error)
	RecordDistribution(ctx context.Context, assetID string, at time.Time) error
}

// DistributionPolicy mirrors the registry-owned configuration record.
type DistributionPolicy struct {
	AdminID           string
	CostCeilingUnits  int64
	PerOwnerCostUnits int64
}

type PolicySource interface {
	Policy(ctx context.Context) (DistributionPolicy, error)
}

// BalanceOracle supplies an owner's current share balance for an asset. It is
// an external collaborator: balances are mutated by the ownership registry,
// never by this ledger.
type BalanceOracle interface {
	Balance(ctx context.Context, assetID string, ownerID string) (int64, error)
}

// Repository owns period, claim, accrual-mark, and unclaimed-accrual rows.
//
// The Commit*/Drain methods are the ledger's atomic units: every record write
// they perform, including the outbox append, must commit or fail together.
// Memory adapters guard them with a single mutex; the postgres adapter wraps
// them in one transaction. Duplicate guards rest on unique keys, not on
// read-then-write checks alone.
type Repository interface {
	CommitPeriod(ctx context.Context, period entities.Period, envelope EventEnvelope) error
	GetPeriod(ctx context.Context, assetID string, label string) (entities.Period, error)
	ListPeriods(ctx context.Context, assetID string) ([]entities.Period, error)
	MarkPeriodSettled(ctx context.Context, assetID string, label string, at time.Time) error

	// CommitClaim inserts the claim record and the settlement envelope.
	// A second insert for the same (asset, owner, period) fails ErrAlreadyClaimed.
	CommitClaim(ctx context.Context, claim entities.ClaimRecord, envelope EventEnvelope) error
	GetClaim(ctx context.Context, assetID string, ownerID string, label string) (entities.ClaimRecord, bool, error)
	ListClaimsByOwner(ctx context.Context, assetID string, ownerID string) ([]entities.ClaimRecord, error)

	// HasEntitlementRecord reports whether the (asset, owner, period) slot is
	// already consumed by either path of the ledger.
	HasEntitlementRecord(ctx context.Context, assetID string, ownerID string, label string) (claimed bool, accrued bool, err error)

	// CommitAccrual inserts the mark and credits the owner's unclaimed
	// balance. A duplicate mark fails ErrAlreadyAccrued.
	CommitAccrual(ctx context.Context, mark entities.AccrualMark) error
	GetAccrual(ctx context.Context, assetID string, ownerID string) (entities.UnclaimedAccrual, bool, error)

	// DrainAccrual zeroes the owner's unclaimed balance and appends the
	// envelope produced for the drained amount. It returns the drained
	// amount; zero means nothing was owed and nothing was written.
	DrainAccrual(
		ctx context.Context,
		assetID string,
		ownerID string,
		at time.Time,
		buildEnvelope func(amount int64) (EventEnvelope, error),
	) (int64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxWriter appends an envelope for asynchronous delivery. Settlement
// requests flow exclusively through the outbox so the bookkeeping commit and
// the settlement instruction cannot diverge.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
