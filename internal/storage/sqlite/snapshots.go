package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/khaja/internal/models"
	"github.com/mmynk/khaja/internal/storage"
)

// SaveSnapshot replaces the owner's members, records and payments in one transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, ownerID string, snapshot models.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workspaces (owner_id, updated_at) VALUES (?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET updated_at = excluded.updated_at`,
		ownerID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert workspace: %w", err)
	}

	// Children first so the statements don't depend on cascade behaviour
	for _, table := range []string{"record_participants", "lunch_records", "payments", "members"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE owner_id = ?", ownerID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, m := range snapshot.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO members (owner_id, id, position, name, active, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			ownerID, m.ID, i, m.Name, m.Active, m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	for i, r := range snapshot.Records {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO lunch_records (owner_id, id, position, date, description, total, paid_by_id, paid_by_name, note, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ownerID, r.ID, i, r.Date, r.Description, r.Total, r.PaidByID, r.PaidByName, r.Note, r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}

		for pos, memberID := range r.ParticipantIDs {
			name := ""
			if pos < len(r.ParticipantNames) {
				name = r.ParticipantNames[pos]
			}
			var share any
			if v, ok := r.ParticipantShares[memberID]; ok {
				share = v
			}
			_, err = tx.ExecContext(ctx,
				"INSERT INTO record_participants (owner_id, record_id, position, member_id, member_name, share) VALUES (?, ?, ?, ?, ?, ?)",
				ownerID, r.ID, pos, memberID, name, share,
			)
			if err != nil {
				return fmt.Errorf("failed to insert record participant: %w", err)
			}
		}
	}

	for i, p := range snapshot.Payments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payments (owner_id, id, position, date, member_id, member_name, amount, note, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ownerID, p.ID, i, p.Date, p.MemberID, p.MemberName, p.Amount, p.Note, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadSnapshot retrieves the owner's snapshot, preserving the saved order.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, ownerID string) (*models.Snapshot, error) {
	// A read transaction gives a consistent view across the four tables
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM workspaces WHERE owner_id = ?", ownerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot for %s: %w", ownerID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check workspace existence: %w", err)
	}

	snapshot := &models.Snapshot{
		Members:  []models.Member{},
		Records:  []models.LunchRecord{},
		Payments: []models.Payment{},
	}

	if snapshot.Members, err = loadMembers(ctx, tx, ownerID); err != nil {
		return nil, err
	}
	if snapshot.Records, err = loadRecords(ctx, tx, ownerID); err != nil {
		return nil, err
	}
	if snapshot.Payments, err = loadPayments(ctx, tx, ownerID); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func loadMembers(ctx context.Context, tx *sql.Tx, ownerID string) ([]models.Member, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, name, active, created_at FROM members WHERE owner_id = ? ORDER BY position",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Active, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

func loadRecords(ctx context.Context, tx *sql.Tx, ownerID string) ([]models.LunchRecord, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, date, description, total, paid_by_id, paid_by_name, note, created_at
		 FROM lunch_records WHERE owner_id = ? ORDER BY position`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	records := []models.LunchRecord{}
	index := make(map[string]int)
	for rows.Next() {
		r := models.LunchRecord{
			ParticipantIDs:    []string{},
			ParticipantNames:  []string{},
			ParticipantShares: map[string]float64{},
		}
		if err := rows.Scan(&r.ID, &r.Date, &r.Description, &r.Total, &r.PaidByID, &r.PaidByName, &r.Note, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		index[r.ID] = len(records)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	// Get participants with their shares
	partRows, err := tx.QueryContext(ctx,
		`SELECT record_id, member_id, member_name, share
		 FROM record_participants WHERE owner_id = ? ORDER BY record_id, position`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get record participants: %w", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		var recordID, memberID, name string
		var share sql.NullFloat64
		if err := partRows.Scan(&recordID, &memberID, &name, &share); err != nil {
			return nil, fmt.Errorf("failed to scan record participant: %w", err)
		}
		i, ok := index[recordID]
		if !ok {
			continue
		}
		r := &records[i]
		r.ParticipantIDs = append(r.ParticipantIDs, memberID)
		r.ParticipantNames = append(r.ParticipantNames, name)
		if share.Valid {
			r.ParticipantShares[memberID] = share.Float64
		}
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate record participants: %w", err)
	}

	return records, nil
}

func loadPayments(ctx context.Context, tx *sql.Tx, ownerID string) ([]models.Payment, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, date, member_id, member_name, amount, note, created_at
		 FROM payments WHERE owner_id = ? ORDER BY position`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.Date, &p.MemberID, &p.MemberName, &p.Amount, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
