// Package changefeed publishes row-change notifications to Redis streams
// and lets websocket clients subscribe to a table, optionally narrowed by a
// row filter (e.g. one conversation). Delivery is at-least-once; consumers
// must key on the row id to tolerate duplicates.
package changefeed

import (
	"context"
	"encoding/json"
	"errors"
)

// Actions mirror the database operations clients care about.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// ErrFeedDisabled is returned by Subscribe when no Redis address was
// configured.
var ErrFeedDisabled = errors.New("realtime change feed is not configured")

// Change is the envelope delivered for every published row change.
type Change struct {
	Table   string          `json:"table"`
	Action  Action          `json:"action"`
	RowID   uint            `json:"row_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Feed is the publish/subscribe surface the services and the websocket
// handler use.
type Feed interface {
	// Publish emits a change on the topic for (table, filter). filter may be
	// empty for table-wide streams.
	Publish(ctx context.Context, table, filter string, action Action, rowID uint, row interface{}) error

	// Subscribe opens a scoped subscription that delivers until ctx is
	// cancelled. Each subscription sees every published change (no
	// load-balancing between subscribers).
	Subscribe(ctx context.Context, table, filter string) (<-chan Change, error)

	Close() error
}

// Topic maps (table, filter) to a stream name.
func Topic(table, filter string) string {
	if filter == "" {
		return "changes." + table
	}
	return "changes." + table + "." + filter
}

// NoopFeed is used when Redis is not configured: publishes vanish and
// subscriptions are refused.
type NoopFeed struct{}

func (NoopFeed) Publish(context.Context, string, string, Action, uint, interface{}) error {
	return nil
}

func (NoopFeed) Subscribe(context.Context, string, string) (<-chan Change, error) {
	return nil, ErrFeedDisabled
}

func (NoopFeed) Close() error { return nil }
