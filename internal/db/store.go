package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedantnaik09/ey-bpo/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Migrate creates the complaints table and the unique index over
// scheduled_callback. The index is the correctness guarantee for the
// one-callback-per-slot invariant; the in-process candidate search only
// finds likely free slots.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS complaints (
			complaint_id BIGSERIAL PRIMARY KEY,
			customer_name TEXT NOT NULL,
			customer_phone_number TEXT NOT NULL,
			complaint_description TEXT NOT NULL,
			complaint_category TEXT NOT NULL DEFAULT '',
			sentiment_score DOUBLE PRECISION NOT NULL,
			urgency_score DOUBLE PRECISION NOT NULL,
			politeness_score DOUBLE PRECISION NOT NULL,
			priority_score DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			ticket_id TEXT NOT NULL,
			past_count BIGINT NOT NULL DEFAULT 0,
			scheduled_callback TIMESTAMPTZ,
			knowledge_base_solution TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS complaints_scheduled_callback_key
		ON complaints (scheduled_callback)
		WHERE scheduled_callback IS NOT NULL
	`)
	return err
}

const complaintColumns = `complaint_id, customer_name, customer_phone_number, complaint_description,
	complaint_category, sentiment_score, urgency_score, politeness_score, priority_score,
	status, ticket_id, past_count, scheduled_callback, knowledge_base_solution, created_at`

func scanComplaint(row pgx.Row) (models.Complaint, error) {
	var c models.Complaint
	err := row.Scan(
		&c.ID, &c.CustomerName, &c.CustomerPhone, &c.Description,
		&c.Category, &c.Sentiment, &c.Urgency, &c.Politeness, &c.Priority,
		&c.Status, &c.TicketID, &c.PastCount, &c.ScheduledCallback, &c.KnowledgeBaseSolution, &c.CreatedAt,
	)
	return c, err
}

// OpenHistory returns the similarity-comparison view over a customer's
// non-resolved complaints, oldest first.
func (s *Store) OpenHistory(ctx context.Context, phone string) (models.TicketCorrelation, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT complaint_description, ticket_id
		FROM complaints
		WHERE status != 'resolved' AND customer_phone_number = $1
		ORDER BY created_at ASC
	`, phone)
	if err != nil {
		return models.TicketCorrelation{}, err
	}
	defer rows.Close()

	var out models.TicketCorrelation
	for rows.Next() {
		var desc, ticket string
		if err := rows.Scan(&desc, &ticket); err != nil {
			return models.TicketCorrelation{}, err
		}
		out.Descriptions = append(out.Descriptions, desc)
		out.TicketIDs = append(out.TicketIDs, ticket)
	}
	return out, rows.Err()
}

// CreateComplaint inserts the complaint and claims its first callback slot in
// one transaction, so creation and scheduling either commit together or not
// at all. Candidates are tried in order; a slot lost to a concurrent claim
// moves on to the next. Exhausting the candidates leaves the complaint
// created but unscheduled.
func (s *Store) CreateComplaint(ctx context.Context, c models.Complaint, candidates []time.Time) (models.Complaint, error) {
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO complaints
			(customer_name, customer_phone_number, complaint_description, complaint_category,
			 sentiment_score, urgency_score, politeness_score, priority_score,
			 status, ticket_id, past_count, knowledge_base_solution, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			RETURNING complaint_id
		`, c.CustomerName, c.CustomerPhone, c.Description, c.Category,
			c.Sentiment, c.Urgency, c.Politeness, c.Priority,
			c.Status, c.TicketID, c.PastCount, c.KnowledgeBaseSolution, c.CreatedAt,
		).Scan(&c.ID)
		if err != nil {
			return err
		}

		slot, err := claimSlot(ctx, tx, c.ID, candidates)
		if err != nil {
			return err
		}
		c.ScheduledCallback = slot
		return nil
	})
	if err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// ScheduleComplaint claims the earliest free candidate slot for an existing
// complaint. Returns the claimed slot, or nil when every candidate is taken.
func (s *Store) ScheduleComplaint(ctx context.Context, complaintID int64, candidates []time.Time) (*time.Time, error) {
	var slot *time.Time
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		slot, err = claimSlot(ctx, tx, complaintID, candidates)
		return err
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// claimSlot walks the candidates inside tx. Each claim runs in a savepoint:
// a unique violation means another submission committed the same slot first,
// so the savepoint rolls back and the next candidate is tried without
// poisoning the outer transaction.
func claimSlot(ctx context.Context, tx pgx.Tx, complaintID int64, candidates []time.Time) (*time.Time, error) {
	for _, candidate := range candidates {
		var occupied bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM complaints WHERE scheduled_callback = $1)
		`, candidate).Scan(&occupied); err != nil {
			return nil, err
		}
		if occupied {
			continue
		}

		nested, err := tx.Begin(ctx)
		if err != nil {
			return nil, err
		}
		_, err = nested.Exec(ctx, `
			UPDATE complaints SET scheduled_callback = $1 WHERE complaint_id = $2
		`, candidate, complaintID)
		if err != nil {
			_ = nested.Rollback(ctx)
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		if err := nested.Commit(ctx); err != nil {
			return nil, err
		}
		slot := candidate
		return &slot, nil
	}
	return nil, nil
}

// IsSlotFree checks occupancy across all complaints regardless of customer
// or status.
func (s *Store) IsSlotFree(ctx context.Context, t time.Time) (bool, error) {
	var occupied bool
	err := s.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM complaints WHERE scheduled_callback = $1)
	`, t).Scan(&occupied)
	return !occupied, err
}

// Reschedule moves a complaint to newTime. It fails without mutating when
// another complaint already occupies the slot, whether observed up front or
// lost in a race at commit. Manual reschedule deliberately skips the
// business-hour rules.
func (s *Store) Reschedule(ctx context.Context, complaintID int64, newTime time.Time) (bool, error) {
	var moved bool
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var taken bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM complaints WHERE scheduled_callback = $1 AND complaint_id != $2)
		`, newTime, complaintID).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return nil
		}
		tag, err := tx.Exec(ctx, `
			UPDATE complaints SET scheduled_callback = $1 WHERE complaint_id = $2
		`, newTime, complaintID)
		if err != nil {
			return err
		}
		moved = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return moved, nil
}

func (s *Store) GetComplaint(ctx context.Context, id int64) (models.Complaint, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE complaint_id = $1`, id)
	return scanComplaint(row)
}

// ListComplaints applies the optional status, priority-band, and free-text
// filters, ordered most urgent and newest first.
func (s *Store) ListComplaints(ctx context.Context, status, band, q string, limit, offset int) ([]models.Complaint, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	switch band {
	case "high":
		wheres = append(wheres, "priority_score >= 0.7")
	case "medium":
		wheres = append(wheres, "priority_score >= 0.4 AND priority_score < 0.7")
	case "low":
		wheres = append(wheres, "priority_score < 0.4")
	}
	if q != "" {
		args = append(args, "%"+q+"%")
		wheres = append(wheres, fmt.Sprintf("(customer_name ILIKE $%d OR complaint_description ILIKE $%d)", len(args), len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY priority_score DESC, created_at DESC"
	query += " LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	return s.queryComplaints(ctx, query, args...)
}

// CallbacksOn returns the complaints with a callback scheduled on the given
// calendar date, in slot order.
func (s *Store) CallbacksOn(ctx context.Context, date time.Time) ([]models.Complaint, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return s.queryComplaints(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE scheduled_callback >= $1 AND scheduled_callback < $2
		ORDER BY scheduled_callback ASC
	`, dayStart, dayEnd)
}

// ListUnscheduledPending returns pending complaints without a callback slot,
// ordered for the bulk scheduling pass: priority descending, then oldest
// submission first.
func (s *Store) ListUnscheduledPending(ctx context.Context) ([]models.Complaint, error) {
	return s.queryComplaints(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE scheduled_callback IS NULL AND status = 'pending'
		ORDER BY priority_score DESC, created_at ASC
	`)
}

func (s *Store) queryComplaints(ctx context.Context, query string, args ...any) ([]models.Complaint, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ToggleStatus flips pending<->resolved and returns the new status. Any
// non-resolved status, human_assistance included, toggles to resolved.
func (s *Store) ToggleStatus(ctx context.Context, id int64) (models.Status, error) {
	var newStatus models.Status
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var current models.Status
		if err := tx.QueryRow(ctx, `SELECT status FROM complaints WHERE complaint_id = $1`, id).Scan(&current); err != nil {
			return err
		}
		if current == models.StatusResolved {
			newStatus = models.StatusPending
		} else {
			newStatus = models.StatusResolved
		}
		_, err := tx.Exec(ctx, `UPDATE complaints SET status = $1 WHERE complaint_id = $2`, newStatus, id)
		return err
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// SetFlagStatus sets an explicit status, e.g. human_assistance escalation.
func (s *Store) SetFlagStatus(ctx context.Context, id int64, status models.Status) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE complaints SET status = $1 WHERE complaint_id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) Metrics(ctx context.Context) (models.DashboardMetrics, error) {
	var m models.DashboardMetrics
	err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COALESCE(AVG(priority_score), 0)
		FROM complaints
	`).Scan(&m.TotalCases, &m.PendingCases, &m.AveragePriority)
	return m, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
