package standings

import (
	"sort"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/participant"
)

// Ranked pairs a participant with its computed change percentage and rank.
type Ranked struct {
	Participant   participant.Participant
	ChangePercent float64
	Rank          int
}

// Rank orders a competition's participants and assigns sequential 1-based
// ranks. Participants without both values, or with a non-positive starting
// value, are excluded from the output entirely.
//
// Change percentage is (starting - current) / starting * 100: loss positive,
// gain negative. Loss-type competitions rank descending (biggest loss first),
// gain-type competitions rank ascending (most negative, i.e. biggest gain,
// first). Unknown types fall back to the loss ordering. Ties keep the input
// order.
func Rank(items []participant.Participant, compType competition.Type) []Ranked {
	out := make([]Ranked, 0, len(items))
	for _, item := range items {
		pct, ok := item.ChangePercent()
		if !ok {
			continue
		}
		out = append(out, Ranked{Participant: item, ChangePercent: pct})
	}

	ascending := false
	switch compType {
	case competition.TypeWeightGain, competition.TypeMuscleGain:
		ascending = true
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].ChangePercent < out[j].ChangePercent
		}
		return out[i].ChangePercent > out[j].ChangePercent
	})

	for idx := range out {
		out[idx].Rank = idx + 1
	}

	return out
}
