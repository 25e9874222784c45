package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
)

// StatsHandler serves transaction aggregates.
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetSummary returns income, expense and balance totals
// @Summary     Transaction summary
// @Description Total income and expenses; balance is income minus expenses
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       contextId query int    false "Context ID (all transactions when omitted)"
// @Param       type      query string false "income or expense"
// @Param       range     query string false "day, week, month, year or all (default all)"
// @Param       date      query string false "Anchor date YYYY-MM-DD (default today)"
// @Success     200 {object} models.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /stats/summary [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.statsService.Summary(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCategoryTotals returns totals per tag and type
// @Summary     Totals by category
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       contextId query int    false "Context ID"
// @Param       type      query string false "income or expense"
// @Param       range     query string false "day, week, month, year or all (default all)"
// @Param       date      query string false "Anchor date YYYY-MM-DD (default today)"
// @Success     200 {object} map[string][]models.CategoryTotal "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /stats/categories [get]
func (h *StatsHandler) GetCategoryTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.statsService.CategoryTotals(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": totals})
}

// GetDailyTotals returns the daily income/expense series
// @Summary     Daily totals
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       contextId query int    false "Context ID"
// @Param       range     query string false "day, week, month, year or all (default all)"
// @Param       date      query string false "Anchor date YYYY-MM-DD (default today)"
// @Success     200 {object} map[string][]models.DailyTotal "Daily series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /stats/daily [get]
func (h *StatsHandler) GetDailyTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	daily, err := h.statsService.DailyTotals(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"daily": daily})
}

// GetCategories lists the tags the user has used
// @Summary     List categories
// @Description Distinct transaction tags, sorted
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]string "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *StatsHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.statsService.Categories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
