// README: Append-only audit log for order events, backed by PostgreSQL.
package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"samaha/internal/types"
)

// EventLog records audit events. Append failures are logged by callers and
// never block the status write they describe.
type EventLog interface {
	Append(ctx context.Context, e *Event) error
}

type PostgresEventLog struct {
	db *pgxpool.Pool
}

func NewPostgresEventLog(db *pgxpool.Pool) *PostgresEventLog {
	return &PostgresEventLog{db: db}
}

func (l *PostgresEventLog) Append(ctx context.Context, e *Event) error {
	_, err := l.db.Exec(ctx, `
		INSERT INTO order_events (order_id, event_type, message, created_at)
		VALUES ($1, $2, $3, $4)`,
		string(e.OrderID),
		string(e.Type),
		e.Message,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append order event: %w", err)
	}
	return nil
}

// ListByOrder returns the audit trail for one order, oldest first.
func (l *PostgresEventLog) ListByOrder(ctx context.Context, orderID types.ID) ([]Event, error) {
	rows, err := l.db.Query(ctx, `
		SELECT id, order_id, event_type, message, created_at
		FROM order_events
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC`,
		string(orderID),
	)
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Type, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
