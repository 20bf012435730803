package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// SweepReport is what a scheduled sweep hands back to its caller. Sweeps
// never panic or propagate errors past their own boundary; they run
// unattended, so a failed run must still produce a diagnosable result.
type SweepReport struct {
	Success bool   `json:"success"`
	Count   int64  `json:"count"`
	Message string `json:"message"`
}

const SweepBatchSize = 1000

type Sweeper struct {
	Store     MessageStore
	BatchSize int
}

func NewSweeper(store MessageStore) *Sweeper {
	return &Sweeper{Store: store, BatchSize: SweepBatchSize}
}

// SweepMessages redacts messages older than the given number of months.
// Redaction keeps the row: id, room and timestamps stay so replies and
// history remain structurally intact; only the payload is scrubbed.
// Already-tombstoned rows are excluded by the selection predicate, which
// makes re-running (or crashing and re-running) safe.
func (v *Sweeper) SweepMessages(months int) SweepReport {
	cutoff := time.Now().AddDate(0, -months, 0)

	var total int64
	for {
		refs, err := v.Store.SelectMessagesOlderThan(cutoff, v.BatchSize)
		if err != nil {
			log.Error().Err(err).Int64("redacted", total).
				Msg("An error occurred when selecting outdated messages...")
			return SweepReport{
				Success: false,
				Count:   total,
				Message: fmt.Sprintf("failed to select outdated messages: %v", err),
			}
		}
		if len(refs) == 0 {
			break
		}

		ids := make([]uint, 0, len(refs))
		for _, ref := range refs {
			ids = append(ids, ref.ID)
		}

		// A failed batch aborts the run but keeps the batches already
		// committed; the next run resumes on whatever is left.
		affected, err := v.Store.RedactMessages(ids)
		if err != nil {
			log.Error().Err(err).Int64("redacted", total).
				Msg("An error occurred when redacting outdated messages...")
			return SweepReport{
				Success: false,
				Count:   total,
				Message: fmt.Sprintf("failed after redacting %d messages: %v", total, err),
			}
		}

		total += affected
		log.Debug().Int64("affected", affected).Msg("Redacted a batch of outdated messages.")

		if len(refs) < v.BatchSize {
			break
		}
	}

	return SweepReport{
		Success: true,
		Count:   total,
		Message: fmt.Sprintf("redacted %d messages older than %d months", total, months),
	}
}

// SweepOrphanedAttachments hard-deletes attachment rows that no message
// owns. There is nothing worth tombstoning in a pointer to nothing.
// Deleting the physical blob is the storage collaborator's job; rows are
// all that go away here.
func (v *Sweeper) SweepOrphanedAttachments() SweepReport {
	refs, err := v.Store.SelectOrphanedAttachments()
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when selecting orphaned attachments...")
		return SweepReport{
			Success: false,
			Message: fmt.Sprintf("failed to select orphaned attachments: %v", err),
		}
	}
	if len(refs) == 0 {
		return SweepReport{Success: true, Message: "no orphaned attachments found"}
	}

	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}

	affected, err := v.Store.DeleteAttachments(ids)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when deleting orphaned attachments...")
		return SweepReport{
			Success: false,
			Message: fmt.Sprintf("failed to delete orphaned attachments: %v", err),
		}
	}

	return SweepReport{
		Success: true,
		Count:   affected,
		Message: fmt.Sprintf("deleted %d orphaned attachments", affected),
	}
}

// SweepRemoved purges rows that interactive deletes soft-removed more
// than maxAge ago, across every maintained table.
func (v *Sweeper) SweepRemoved(maxAge time.Duration) SweepReport {
	affected, err := v.Store.PurgeRemoved(time.Now().Add(-maxAge))
	if err != nil {
		log.Error().Err(err).Int64("purged", affected).
			Msg("An error occurred when purging removed rows...")
		return SweepReport{
			Success: false,
			Count:   affected,
			Message: fmt.Sprintf("failed after purging %d removed rows: %v", affected, err),
		}
	}
	return SweepReport{
		Success: true,
		Count:   affected,
		Message: fmt.Sprintf("purged %d removed rows", affected),
	}
}

// DoAutoDatabaseCleanup reclaims soft-deleted rows on an hourly cadence.
func DoAutoDatabaseCleanup() {
	report := NewSweeper(Store()).SweepRemoved(60 * time.Minute)
	log.Debug().Bool("success", report.Success).Int64("affected", report.Count).
		Msg("Clean up entire database accomplished.")
}

// DoRetentionSweep is the cron entry point. Cadence lives with the
// scheduler in main, not here.
func DoRetentionSweep() {
	months := viper.GetInt("retention.months")
	if months <= 0 {
		months = 2
	}

	sweeper := NewSweeper(Store())

	report := sweeper.SweepMessages(months)
	log.Info().Bool("success", report.Success).Int64("affected", report.Count).
		Msg("Retention sweep for messages accomplished.")

	report = sweeper.SweepOrphanedAttachments()
	log.Info().Bool("success", report.Success).Int64("affected", report.Count).
		Msg("Retention sweep for orphaned attachments accomplished.")
}
