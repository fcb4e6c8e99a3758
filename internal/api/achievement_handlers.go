package api

import (
	"net/http"

	"github.com/earmarkapp/earmark-server/internal/domain"
	"github.com/earmarkapp/earmark-server/internal/http/response"
	"github.com/earmarkapp/earmark-server/internal/service"
)

// achievementsResponse is the combined evaluation result: every catalog
// entry with current progress, the stats snapshot the evaluation used,
// and the nearest locked goal.
type achievementsResponse struct {
	CatalogVersion int                        `json:"catalog_version"`
	Achievements   []domain.AchievementStatus `json:"achievements"`
	Stats          *domain.UserStats          `json:"stats"`
	NextGoal       *domain.AchievementStatus  `json:"next_goal,omitempty"`
}

// handleListAchievements handles GET /api/v1/achievements.
func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	statuses, stats, err := s.achievementService.Evaluate(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, achievementsResponse{
		CatalogVersion: domain.CatalogVersion,
		Achievements:   statuses,
		Stats:          stats,
		NextGoal:       service.NextGoal(statuses),
	}, s.logger)
}
