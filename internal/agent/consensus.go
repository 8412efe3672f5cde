package agent

import "github.com/AbhayRathi/TinyWindow/internal/types"

// tieOrder fixes tie-breaks between equally weighted buckets:
// buy beats sell beats hold.
var tieOrder = []string{types.ActionBuy, types.ActionSell, types.ActionHold}

// BuildConsensus reduces predictions to one action by confidence-weighted
// vote. Unknown actions count as hold. The reported confidence is the
// winning bucket's share of the total weight; a lone prediction passes
// through unchanged.
func BuildConsensus(preds []types.Prediction) types.Consensus {
	votes := map[string]float64{
		types.ActionBuy:  0,
		types.ActionSell: 0,
		types.ActionHold: 0,
	}
	if len(preds) == 0 {
		return types.Consensus{Action: types.ActionHold, Confidence: 0.0, Votes: votes}
	}
	if len(preds) == 1 {
		p := preds[0]
		action := p.Action
		if _, ok := votes[action]; !ok {
			action = types.ActionHold
		}
		votes[action] = p.Confidence
		return types.Consensus{Action: action, Confidence: p.Confidence, Votes: votes}
	}

	for _, p := range preds {
		action := p.Action
		if _, ok := votes[action]; !ok {
			action = types.ActionHold
		}
		votes[action] += p.Confidence
	}

	winner := types.ActionHold
	best := -1.0
	total := 0.0
	for _, action := range tieOrder {
		total += votes[action]
		if votes[action] > best {
			winner, best = action, votes[action]
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = votes[winner] / total
	}
	return types.Consensus{Action: winner, Confidence: confidence, Votes: votes}
}
