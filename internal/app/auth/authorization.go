package auth

import (
	"fmt"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/logger"
)

// ValidateSkillOwnership returns a permission error unless actorID owns the skill
func ValidateSkillOwnership(skill *models.Skill, actorID string) error {
	if skill.IsOwnedBy(actorID) {
		return nil
	}
	logger.Warn().Str("skillID", skill.ID).Str("actorID", actorID).Msg("Skill ownership check failed")
	return apperrors.NewForbiddenError(fmt.Sprintf("skill %s belongs to another instructor", skill.ID))
}
