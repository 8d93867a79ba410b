package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/battlecore/internal/events"
)

// ErrReportNotFound is returned when no archived report matches a battle ID.
var ErrReportNotFound = errors.New("battle report not found")

// BattleReportRepository persists battle.ended summaries.
type BattleReportRepository struct {
	db *pgxpool.Pool
}

// NewBattleReportRepository creates a BattleReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleReportRepository(db *pgxpool.Pool) *BattleReportRepository {
	return &BattleReportRepository{db: db}
}

// Save stores the report and its participant rows in one transaction.
// Saving a battle that is already archived is a no-op.
//
// Postcondition: Returns true iff a new report was written.
func (r *BattleReportRepository) Save(ctx context.Context, rep events.BattleEnd) (bool, error) {
	inserted := false
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO battle_reports
				(battle_id, type, status, winner_id, turns, reward_count, started_at, ended_at, duration_ms)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (battle_id) DO NOTHING`,
			rep.BattleID, rep.Type, rep.Status, rep.WinnerID, rep.Turns, rep.RewardCount,
			rep.StartedAt, rep.EndedAt, rep.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("inserting battle report: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		inserted = true

		batch := &pgx.Batch{}
		for _, p := range rep.Participants {
			batch.Queue(`
				INSERT INTO battle_participants
					(battle_id, participant_id, name, turn_order, health, max_health,
					 damage_dealt, damage_received, healing_done, skills_used,
					 critical_hits, kills, deaths)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
				rep.BattleID, p.ID, p.Name, p.TurnOrder, p.Health, p.MaxHealth,
				p.DamageDealt, p.DamageReceived, p.HealingDone, p.SkillsUsed,
				p.CriticalHits, p.Kills, p.Deaths,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting battle participants: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Get returns the archived report for battleID, participants in turn order.
//
// Postcondition: Returns the report or ErrReportNotFound.
func (r *BattleReportRepository) Get(ctx context.Context, battleID string) (*events.BattleEnd, error) {
	var (
		rep        events.BattleEnd
		durationMS int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT battle_id, type, status, winner_id, turns, reward_count, started_at, ended_at, duration_ms
		FROM battle_reports WHERE battle_id = $1`,
		battleID,
	).Scan(
		&rep.BattleID, &rep.Type, &rep.Status, &rep.WinnerID, &rep.Turns, &rep.RewardCount,
		&rep.StartedAt, &rep.EndedAt, &durationMS,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("querying battle report: %w", err)
	}
	rep.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := r.db.Query(ctx, `
		SELECT participant_id, name, turn_order, health, max_health,
		       damage_dealt, damage_received, healing_done, skills_used,
		       critical_hits, kills, deaths
		FROM battle_participants WHERE battle_id = $1 ORDER BY turn_order ASC`,
		battleID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying battle participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p events.ParticipantSummary
		if err := rows.Scan(
			&p.ID, &p.Name, &p.TurnOrder, &p.Health, &p.MaxHealth,
			&p.DamageDealt, &p.DamageReceived, &p.HealingDone, &p.SkillsUsed,
			&p.CriticalHits, &p.Kills, &p.Deaths,
		); err != nil {
			return nil, fmt.Errorf("scanning battle participant row: %w", err)
		}
		rep.Participants = append(rep.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battle participants: %w", err)
	}
	return &rep, nil
}

// ListByParticipant returns the reports of every battle participantID took
// part in, most recently ended first, without participant rows.
//
// Precondition: limit > 0.
func (r *BattleReportRepository) ListByParticipant(ctx context.Context, participantID string, limit int) ([]events.BattleEnd, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.battle_id, b.type, b.status, b.winner_id, b.turns, b.reward_count,
		       b.started_at, b.ended_at, b.duration_ms
		FROM battle_reports b
		JOIN battle_participants p ON p.battle_id = b.battle_id
		WHERE p.participant_id = $1
		ORDER BY b.ended_at DESC, b.battle_id ASC
		LIMIT $2`,
		participantID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battle reports: %w", err)
	}
	defer rows.Close()

	out := make([]events.BattleEnd, 0)
	for rows.Next() {
		var (
			rep        events.BattleEnd
			durationMS int64
		)
		if err := rows.Scan(
			&rep.BattleID, &rep.Type, &rep.Status, &rep.WinnerID, &rep.Turns, &rep.RewardCount,
			&rep.StartedAt, &rep.EndedAt, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("scanning battle report row: %w", err)
		}
		rep.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rep)
	}
	return out, rows.Err()
}
