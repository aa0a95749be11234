package odds

import "context"

// Repository persists snapshots to the relational store.
type Repository interface {
	// UpsertSnapshots writes all snapshots in one transaction. Rows that
	// collide on the natural key have their value fields overwritten.
	UpsertSnapshots(ctx context.Context, snapshots []Snapshot) error
}

// Publisher appends snapshots to the live odds stream for downstream
// consumers. Independent of the relational commit.
type Publisher interface {
	PublishSnapshots(ctx context.Context, snapshots []Snapshot) error
}
