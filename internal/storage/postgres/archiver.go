package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/events"
)

// ReportSaver stores a battle summary. *BattleReportRepository satisfies it.
type ReportSaver interface {
	Save(ctx context.Context, rep events.BattleEnd) (bool, error)
}

// Archiver is an events.Publisher that writes every battle.ended payload to
// the battle archive and ignores all other notifications.
type Archiver struct {
	reports ReportSaver
	logger  *zap.Logger
}

// NewArchiver creates an Archiver writing to reports.
//
// Precondition: reports and logger must not be nil.
func NewArchiver(reports ReportSaver, logger *zap.Logger) *Archiver {
	return &Archiver{reports: reports, logger: logger}
}

// Publish archives payload when name is events.BattleEnded.
func (a *Archiver) Publish(ctx context.Context, name string, payload any) error {
	if name != events.BattleEnded {
		return nil
	}
	var rep events.BattleEnd
	switch p := payload.(type) {
	case events.BattleEnd:
		rep = p
	case *events.BattleEnd:
		rep = *p
	default:
		return fmt.Errorf("archiving %s: unexpected payload %T", name, payload)
	}

	inserted, err := a.reports.Save(ctx, rep)
	if err != nil {
		return fmt.Errorf("archiving battle %s: %w", rep.BattleID, err)
	}
	if inserted {
		a.logger.Debug("battle archived",
			zap.String("battle_id", rep.BattleID),
			zap.String("status", rep.Status),
		)
	}
	return nil
}
