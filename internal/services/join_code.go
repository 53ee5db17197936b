package services

import (
	"fmt"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/constants"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/utils"
)

// generateJoinCode generates a direct join code, retrying a bounded number of
// times when the candidate is already held by a team or community. After the
// last attempt the candidate is accepted as-is. The unique indexes on the code
// columns are per-table, so a same-table residual collision fails loudly on
// insert, but a cross-table one (a team code equal to a community code) would
// not: code resolution checks teams first, so the team would shadow the
// community's code. Checking both tables on every attempt keeps that window
// to the accept-after-retries path only.
func generateJoinCode(teams repository.TeamRepository, communities repository.CommunityRepository) (string, error) {
	var code string
	for attempt := 0; attempt < constants.JoinCodeMaxAttempts; attempt++ {
		candidate, err := utils.GenerateCode(constants.JoinCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		code = candidate

		inUse, err := teams.JoinCodeInUse(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
		if !inUse {
			inUse, err = communities.JoinCodeInUse(candidate)
			if err != nil {
				return "", fmt.Errorf("failed to check join code: %w", err)
			}
		}
		if !inUse {
			return candidate, nil
		}
	}
	return code, nil
}
