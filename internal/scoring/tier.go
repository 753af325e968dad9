package scoring

// Tier is a reliability band over the integrity score.
type Tier int

const (
	TierBronze Tier = iota // 0-30
	TierSilver             // 31-70
	TierGold               // 71-100
)

// Canonical tier boundaries. Presentation surfaces that want different
// labels must map over these tiers, not reclassify the score.
const (
	bronzeMax = 30
	silverMax = 70
)

func (t Tier) String() string {
	switch t {
	case TierBronze:
		return "bronze"
	case TierSilver:
		return "silver"
	case TierGold:
		return "gold"
	}
	return "unknown"
}

// Classify maps a score to its tier.
func Classify(score int) Tier {
	switch {
	case score <= bronzeMax:
		return TierBronze
	case score <= silverMax:
		return TierSilver
	default:
		return TierGold
	}
}

// TierChange describes a tier boundary crossing caused by one scoring event.
type TierChange struct {
	Up          bool
	OldTier     Tier
	NewTier     Tier
	ScoreChange int
}

// DetectChange compares the tiers of the old and new score directly and
// returns a notification if they differ, nil otherwise. A single event can
// cross both boundaries; the comparison never assumes at most one crossing.
func DetectChange(oldScore, newScore int) *TierChange {
	oldTier := Classify(oldScore)
	newTier := Classify(newScore)
	if oldTier == newTier {
		return nil
	}
	return &TierChange{
		Up:          newTier > oldTier,
		OldTier:     oldTier,
		NewTier:     newTier,
		ScoreChange: newScore - oldScore,
	}
}
