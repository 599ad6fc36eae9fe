package entities

import "time"

// GuildSettings holds per-guild configuration for the economy
type GuildSettings struct {
	GuildID             int64     `db:"guild_id"`
	KingID              *int64    `db:"king_discord_id"`
	TaxRate             float64   `db:"tax_rate"`
	SupporterTaxRate    float64   `db:"supporter_tax_rate"`
	DailyMinimum        int64     `db:"daily_minimum"`
	SalaryChannelID     *int64    `db:"salary_channel_id"`
	RevolutionChannelID *int64    `db:"revolution_channel_id"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// TaxRateFor returns the applicable tax rate for a user. Supporters always
// get the lower of the two rates regardless of how they were configured.
func (g *GuildSettings) TaxRateFor(supporter bool) float64 {
	if supporter {
		if g.SupporterTaxRate < g.TaxRate {
			return g.SupporterTaxRate
		}
		return g.TaxRate
	}
	return g.TaxRate
}

// HasKing reports whether a King is currently seated
func (g *GuildSettings) HasKing() bool {
	return g.KingID != nil && *g.KingID != 0
}
