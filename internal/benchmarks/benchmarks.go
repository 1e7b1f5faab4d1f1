// Package benchmarks is the read-only division catalog: equipment loads and
// finish-time bands compiled from published race results. Lookups are keyed
// by division string and never mutate.
package benchmarks

import "github.com/okian/roxpace/internal/domain/sim"

// Equipment lists the loads (kg) a division races with.
type Equipment struct {
	SledPushKg          float64 `json:"sled_push_kg"`
	SledPullKg          float64 `json:"sled_pull_kg"`
	FarmersCarryPerHand float64 `json:"farmers_carry_per_hand_kg"`
	SandbagLungesKg     float64 `json:"sandbag_lunges_kg"`
	WallBallKg          float64 `json:"wall_ball_kg"`
	WallBallTargetM     float64 `json:"wall_ball_target_m"`
}

// Band is a finish-time bracket in seconds.
type Band struct {
	MinSeconds int `json:"min_seconds"`
	MaxSeconds int `json:"max_seconds"`
}

// Division is one catalog entry.
type Division struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Equipment   Equipment         `json:"equipment"`
	FinishBands map[sim.Tier]Band `json:"finish_bands,omitempty"`
}

var catalog = map[string]Division{
	"mens_pro": {
		ID:   "mens_pro",
		Name: "Men's Pro",
		Equipment: Equipment{
			SledPushKg: 202, SledPullKg: 153, FarmersCarryPerHand: 32,
			SandbagLungesKg: 30, WallBallKg: 13.6, WallBallTargetM: 3.0,
		},
		FinishBands: map[sim.Tier]Band{
			sim.TierElite:        {MinSeconds: 3195, MaxSeconds: 3600},
			sim.TierAdvanced:     {MinSeconds: 3600, MaxSeconds: 4500},
			sim.TierIntermediate: {MinSeconds: 4500, MaxSeconds: 5400},
			sim.TierBeginner:     {MinSeconds: 5400, MaxSeconds: 7200},
			sim.TierRecreational: {MinSeconds: 7200, MaxSeconds: 9000},
		},
	},
	"mens_open": {
		ID:   "mens_open",
		Name: "Men's Open",
		Equipment: Equipment{
			SledPushKg: 152, SledPullKg: 103, FarmersCarryPerHand: 24,
			SandbagLungesKg: 20, WallBallKg: 6.35, WallBallTargetM: 3.0,
		},
		FinishBands: map[sim.Tier]Band{
			sim.TierElite:        {MinSeconds: 3600, MaxSeconds: 4500},
			sim.TierAdvanced:     {MinSeconds: 4500, MaxSeconds: 5100},
			sim.TierIntermediate: {MinSeconds: 5100, MaxSeconds: 6000},
			sim.TierBeginner:     {MinSeconds: 6000, MaxSeconds: 6840},
			sim.TierRecreational: {MinSeconds: 6840, MaxSeconds: 9000},
		},
	},
	"womens_pro": {
		ID:   "womens_pro",
		Name: "Women's Pro",
		Equipment: Equipment{
			SledPushKg: 152, SledPullKg: 103, FarmersCarryPerHand: 24,
			SandbagLungesKg: 20, WallBallKg: 6, WallBallTargetM: 2.7,
		},
		FinishBands: map[sim.Tier]Band{
			sim.TierElite:        {MinSeconds: 3383, MaxSeconds: 3900},
			sim.TierAdvanced:     {MinSeconds: 3900, MaxSeconds: 4800},
			sim.TierIntermediate: {MinSeconds: 4800, MaxSeconds: 5700},
			sim.TierBeginner:     {MinSeconds: 5700, MaxSeconds: 7500},
			sim.TierRecreational: {MinSeconds: 7500, MaxSeconds: 9900},
		},
	},
	"womens_open": {
		ID:   "womens_open",
		Name: "Women's Open",
		Equipment: Equipment{
			SledPushKg: 102, SledPullKg: 78, FarmersCarryPerHand: 16,
			SandbagLungesKg: 10, WallBallKg: 4, WallBallTargetM: 2.7,
		},
		FinishBands: map[sim.Tier]Band{
			sim.TierElite:        {MinSeconds: 3900, MaxSeconds: 5160},
			sim.TierAdvanced:     {MinSeconds: 5160, MaxSeconds: 5880},
			sim.TierIntermediate: {MinSeconds: 5880, MaxSeconds: 6840},
			sim.TierBeginner:     {MinSeconds: 6840, MaxSeconds: 7800},
			sim.TierRecreational: {MinSeconds: 7800, MaxSeconds: 9900},
		},
	},
	"doubles_men": {
		ID:   "doubles_men",
		Name: "Doubles Men",
		Equipment: Equipment{
			SledPushKg: 152, SledPullKg: 103, FarmersCarryPerHand: 24,
			SandbagLungesKg: 20, WallBallKg: 6.35, WallBallTargetM: 3.0,
		},
	},
	"doubles_women": {
		ID:   "doubles_women",
		Name: "Doubles Women",
		Equipment: Equipment{
			SledPushKg: 102, SledPullKg: 78, FarmersCarryPerHand: 16,
			SandbagLungesKg: 10, WallBallKg: 4, WallBallTargetM: 2.7,
		},
	},
	"doubles_mixed": {
		ID:   "doubles_mixed",
		Name: "Doubles Mixed",
		Equipment: Equipment{
			SledPushKg: 152, SledPullKg: 103, FarmersCarryPerHand: 24,
			SandbagLungesKg: 20, WallBallKg: 6.35, WallBallTargetM: 3.0,
		},
	},
}

// ids caches the catalog keys in a stable order for listing.
var ids = []string{
	"mens_pro", "mens_open", "womens_pro", "womens_open",
	"doubles_men", "doubles_women", "doubles_mixed",
}

// Lookup returns the division entry, or ok=false for an unknown ID.
func Lookup(id string) (Division, bool) {
	d, ok := catalog[id]
	return d, ok
}

// Divisions returns every catalog entry in a stable order.
func Divisions() []Division {
	out := make([]Division, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalog[id])
	}
	return out
}
