package loadgen

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/pkg/logger"
)

// Draft is one generated roster: the request sent to the server and the
// same roster expanded locally for verification.
type Draft struct {
	Request RosterRequest
	Roster  model.Roster
}

// RosterRequest is the wire form of a roster given by player ids.
type RosterRequest struct {
	ID            string   `json:"id"`
	PlayerIDs     []string `json:"player_ids"`
	CaptainID     string   `json:"captain_id,omitempty"`
	ViceCaptainID string   `json:"vice_captain_id,omitempty"`
}

// Generate drafts n rosters from pool. Each roster takes up to eleven
// distinct players at random, so some break the role, credit or team rules.
func Generate(ctx context.Context, pool []model.Player, n int, seed uint64) ([]Draft, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: empty player pool", ErrInvalidConfig)
	}
	logger.Get().Info(ctx, "drafting rosters", logger.Int("rosters", n), logger.Int("pool", len(pool)))

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ns := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "loadgen:%d", seed))

	drafts := make([]Draft, n)
	for i := range drafts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during drafting: %w", err)
		}
		drafts[i] = draftOne(rng, pool, uuid.NewSHA1(ns, fmt.Appendf(nil, "%d", i)).String())
	}
	return drafts, nil
}

func draftOne(rng *rand.Rand, pool []model.Player, id string) Draft {
	size := min(rosterSize, len(pool))
	picked := make([]model.Player, 0, size)
	for _, idx := range rng.Perm(len(pool))[:size] {
		picked = append(picked, pool[idx])
	}

	ids := make([]string, len(picked))
	for i, p := range picked {
		ids[i] = p.ID
	}

	captain := ids[0]
	vice := captain
	if len(ids) > 1 && rng.IntN(sharedArmbandOdds) != 0 {
		vice = ids[1]
	}

	return Draft{
		Request: RosterRequest{ID: id, PlayerIDs: ids, CaptainID: captain, ViceCaptainID: vice},
		Roster:  model.Roster{ID: id, Players: picked, CaptainID: captain, ViceCaptainID: vice},
	}
}
