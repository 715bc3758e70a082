package booking

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	expertRepo "maato/database/repository/expert"
	"maato/models"
	"maato/utils"

	"go.uber.org/zap"
)

// maxWardDistance is the absolute ward-distance band: experts whose lab
// ward is further than this from the target ward are not candidates
// regardless of load.
const maxWardDistance = 3

// rankedExpert holds an expert along with the computed ward distance.
type rankedExpert struct {
	expert   models.User
	distance int
}

// DefaultMatchingService implements MatchingService with the geography +
// load heuristic: candidates are approved experts in the exact target
// municipality within the ward-distance band, ordered by ward distance then
// by current active load.
type DefaultMatchingService struct {
	ExpertRepo expertRepo.ExpertRepository
}

// FindBestExpert returns the best candidate expert, or nil when none
// qualifies. Municipality matching is an exact string compare; a typo or
// casing difference yields zero candidates (known limitation, documented
// rather than fuzzed around).
func (s *DefaultMatchingService) FindBestExpert(ctx context.Context, municipality, ward string, excludeIDs []string) (*models.User, error) {
	targetWard, err := strconv.Atoi(ward)
	if err != nil {
		return nil, fmt.Errorf("target ward %q is not numeric: %w", ward, err)
	}

	experts, err := s.ExpertRepo.FindApprovedByMunicipality(ctx, municipality, excludeIDs)
	if err != nil {
		return nil, fmt.Errorf("expert search failed: %w", err)
	}

	var candidates []rankedExpert
	for _, e := range experts {
		labWard, err := strconv.Atoi(e.LabWard)
		if err != nil {
			// Experts without a numeric lab ward are unmatchable, not
			// distance zero.
			continue
		}
		distance := labWard - targetWard
		if distance < 0 {
			distance = -distance
		}
		if distance > maxWardDistance {
			continue
		}
		candidates = append(candidates, rankedExpert{expert: e, distance: distance})
	}

	if len(candidates) == 0 {
		utils.GetLogger().Debug("no matchable expert",
			zap.String("municipality", municipality),
			zap.String("ward", ward),
			zap.Int("excluded", len(excludeIDs)),
		)
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].expert.ActiveBookings < candidates[j].expert.ActiveBookings
	})

	best := candidates[0].expert
	return &best, nil
}
