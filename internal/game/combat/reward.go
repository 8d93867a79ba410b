package combat

import "github.com/google/uuid"

// RewardDistributor decides the rewards granted when a battle completes with
// a winner. It is called with the battle lock held and must not block.
type RewardDistributor interface {
	Distribute(b *Battle, winner *Participant) []Reward
}

// FixedReward grants the winner a single unclaimed experience reward of a
// fixed amount, whatever the battle type or participant levels.
type FixedReward struct {
	Amount int
}

// RewardExperience is the Reward.Type for character experience.
const RewardExperience = "experience"

// DefaultVictoryExperience is the experience FixedReward grants when Amount is zero.
const DefaultVictoryExperience = 100

// Distribute returns exactly one experience reward for winner.
//
// Postcondition: len(result) == 1 and result[0].ParticipantID == winner.ID.
func (f FixedReward) Distribute(_ *Battle, winner *Participant) []Reward {
	amount := f.Amount
	if amount <= 0 {
		amount = DefaultVictoryExperience
	}
	return []Reward{{
		ID:            uuid.NewString(),
		ParticipantID: winner.ID,
		Type:          RewardExperience,
		Amount:        amount,
		Description:   "battle victory experience",
		Claimed:       false,
	}}
}
