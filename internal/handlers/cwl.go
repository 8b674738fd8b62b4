package handlers

import (
	"net/http"
)

// GetCWLRanking returns the ranking of a clan's league group
// @Summary League Group Ranking
// @Description Rank every clan of the group by stars (with war win bonus), then destruction
// @Tags CWL
// @Produce json
// @Param clanTag path string true "Clan tag, # optional"
// @Param season query string false "Season (YYYY-MM), latest when omitted"
// @Success 200 {object} models.CWLRanking
// @Failure 404 {object} map[string]string "No league group"
// @Router /v1/cwl/{clanTag}/ranking [get]
func (h *Handler) GetCWLRanking(w http.ResponseWriter, r *http.Request) {
	clanTag := clanTagParam(r, "clanTag")
	season := r.URL.Query().Get("season")
	if season != "" {
		if err := h.validator.Var(season, "datetime=2006-01"); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "invalid season, expected YYYY-MM")
			return
		}
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	ranking, err := h.cwl.GetGroupRanking(ctx, clanTag, season)
	if err != nil {
		h.serviceError(w, r, err, "Failed to rank league group")
		return
	}
	h.jsonResponse(w, http.StatusOK, ranking)
}

// GetCWLRankingHistory returns a clan's placement in every recorded league season
// @Summary League Ranking History
// @Tags CWL
// @Produce json
// @Param clanTag path string true "Clan tag, # optional"
// @Success 200 {array} models.CWLRankingHistoryEntry
// @Router /v1/cwl/{clanTag}/ranking-history [get]
func (h *Handler) GetCWLRankingHistory(w http.ResponseWriter, r *http.Request) {
	clanTag := clanTagParam(r, "clanTag")

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	history, err := h.cwl.GetRankingHistory(ctx, clanTag)
	if err != nil {
		h.serviceError(w, r, err, "Failed to build league history")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"clan_tag": clanTag,
		"items":    history,
	})
}
