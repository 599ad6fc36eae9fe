package entities

import (
	"time"

	"github.com/google/uuid"
)

// SalaryBreakdown is the per-user result of one daily salary calculation
type SalaryBreakdown struct {
	DiscordID       int64
	Base            int64 // daily minimum the total started from
	ActivityEddies  float64
	VoiceEddies     float64
	StreamingEddies float64
	WordleEddies    float64
	GrossTotal      int64
	Tax             int64
	NetTotal        int64
	NewDailyMinimum int64
	MinimumDecayed  bool
}

// SalaryRun records one completed nightly salary distribution for a guild.
// The run ID doubles as an idempotency key: at most one real run per day.
type SalaryRun struct {
	ID           uuid.UUID `db:"id"`
	GuildID      int64     `db:"guild_id"`
	Day          time.Time `db:"day"`
	UsersPaid    int       `db:"users_paid"`
	TotalPaid    int64     `db:"total_paid"`
	TaxCollected int64     `db:"tax_collected"`
	CreatedAt    time.Time `db:"created_at"`
}

// SalaryRunResult summarizes a run (real or preview) for the caller
type SalaryRunResult struct {
	RunID        uuid.UUID
	Day          time.Time
	Real         bool
	Breakdowns   []*SalaryBreakdown
	TotalPaid    int64
	TaxCollected int64
}
