package handler

import (
	"context"
	"net/http"
	"strconv"

	"tokyo-valuation-api/internal/models"

	"github.com/gin-gonic/gin"
)

const defaultRankingLimit = 10

// ValuationHandler handles valuation, ranking and location listing requests
type ValuationHandler struct {
	service ValuationService
}

// Service interface for dependency injection
type ValuationService interface {
	Health(context.Context) error
	Wards(context.Context) []string
	Towns(context.Context, string) (models.TownListing, error)
	Valuate(context.Context, models.ValuationRequest) (*models.ValuationResult, error)
	Rank(context.Context, models.RankingRequest) ([]models.RankingEntry, error)
	Yield(context.Context, int64, int64) (*models.YieldResult, error)
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(svc ValuationService) *ValuationHandler {
	return &ValuationHandler{service: svc}
}

// Health handles GET /health requests
//
//	@Summary	Service health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/health [get]
func (h *ValuationHandler) Health(c *gin.Context) {
	if err := h.service.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Wards handles GET /wards requests
//
//	@Summary	List wards with at least one location
//	@Produce	json
//	@Success	200	{array}	string
//	@Router		/wards [get]
func (h *ValuationHandler) Wards(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Wards(c.Request.Context()))
}

// Towns handles GET /towns requests
//
//	@Summary	List the towns of a ward
//	@Produce	json
//	@Param		ward	query		string	true	"Ward name, e.g. 新宿区"
//	@Success	200		{object}	models.TownListing
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/towns [get]
func (h *ValuationHandler) Towns(c *gin.Context) {
	ward := c.Query("ward")
	if ward == "" {
		badRequest(c, "missing required query parameter 'ward'")
		return
	}

	listing, err := h.service.Towns(c.Request.Context(), ward)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Valuate handles GET /valuation requests
//
//	@Summary	Estimate the price of a property
//	@Produce	json
//	@Param		ward		query		string	false	"Ward name"
//	@Param		town		query		string	false	"Town name within the ward"
//	@Param		town_key	query		string	false	"Full location key, instead of ward and town"
//	@Param		size		query		number	true	"Floor area in square metres"
//	@Param		built_year	query		int		true	"Year of construction"
//	@Param		walk		query		int		true	"Walking minutes to the nearest station"
//	@Success	200			{object}	models.ValuationResult
//	@Failure	400			{object}	map[string]string
//	@Failure	404			{object}	map[string]string
//	@Failure	409			{object}	map[string]string
//	@Failure	503			{object}	map[string]string
//	@Router		/valuation [get]
func (h *ValuationHandler) Valuate(c *gin.Context) {
	req := models.ValuationRequest{
		Ward:    c.Query("ward"),
		Town:    c.Query("town"),
		TownKey: c.Query("town_key"),
	}
	if req.Town == "" && req.TownKey == "" {
		badRequest(c, "missing required query parameter 'town' or 'town_key'")
		return
	}
	if req.Town != "" && req.TownKey != "" {
		badRequest(c, "query parameters 'town' and 'town_key' are mutually exclusive")
		return
	}

	var ok bool
	if req.Size, req.BuiltYear, req.WalkMinutes, ok = parseSpecs(c); !ok {
		return
	}

	result, err := h.service.Valuate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Rank handles GET /ranking requests
//
//	@Summary	Rank every location by estimated price
//	@Produce	json
//	@Param		size		query	number	true	"Floor area in square metres"
//	@Param		built_year	query	int		true	"Year of construction"
//	@Param		walk		query	int		true	"Walking minutes to the nearest station"
//	@Param		order		query	string	false	"asc or desc"	default(desc)
//	@Param		limit		query	int		false	"Maximum number of entries"	default(10)
//	@Success	200			{array}	models.RankingEntry
//	@Failure	400			{object}	map[string]string
//	@Failure	503			{object}	map[string]string
//	@Router		/ranking [get]
func (h *ValuationHandler) Rank(c *gin.Context) {
	var (
		req models.RankingRequest
		ok  bool
		err error
	)
	if req.Size, req.BuiltYear, req.WalkMinutes, ok = parseSpecs(c); !ok {
		return
	}

	req.Order, err = models.ParseOrder(c.Query("order"))
	if err != nil {
		badRequest(c, "invalid order, expected 'asc' or 'desc'")
		return
	}

	req.Limit = defaultRankingLimit
	if s := c.Query("limit"); s != "" {
		req.Limit, err = strconv.Atoi(s)
		if err != nil {
			badRequest(c, "invalid limit format")
			return
		}
	}

	entries, err := h.service.Rank(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Yield handles GET /yield requests
//
//	@Summary	Gross rental yield
//	@Produce	json
//	@Param		rent	query		int	true	"Monthly rent in yen"
//	@Param		price	query		int	true	"Property price in yen"
//	@Success	200		{object}	models.YieldResult
//	@Failure	400		{object}	map[string]string
//	@Router		/yield [get]
func (h *ValuationHandler) Yield(c *gin.Context) {
	rentStr := c.Query("rent")
	priceStr := c.Query("price")

	if rentStr == "" || priceStr == "" {
		badRequest(c, "missing required query parameters 'rent' and 'price'")
		return
	}

	rent, err := strconv.ParseInt(rentStr, 10, 64)
	if err != nil {
		badRequest(c, "invalid rent format")
		return
	}

	price, err := strconv.ParseInt(priceStr, 10, 64)
	if err != nil {
		badRequest(c, "invalid price format")
		return
	}

	result, err := h.service.Yield(c.Request.Context(), rent, price)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseSpecs reads size, built_year and walk. On failure it writes a 400
// response and returns ok == false.
func parseSpecs(c *gin.Context) (size float64, builtYear, walk int, ok bool) {
	sizeStr := c.Query("size")
	yearStr := c.Query("built_year")
	walkStr := c.Query("walk")

	if sizeStr == "" || yearStr == "" || walkStr == "" {
		badRequest(c, "missing required query parameters 'size', 'built_year' and 'walk'")
		return 0, 0, 0, false
	}

	size, err := strconv.ParseFloat(sizeStr, 64)
	if err != nil {
		badRequest(c, "invalid size format")
		return 0, 0, 0, false
	}

	builtYear, err = strconv.Atoi(yearStr)
	if err != nil {
		badRequest(c, "invalid built_year format")
		return 0, 0, 0, false
	}

	walk, err = strconv.Atoi(walkStr)
	if err != nil {
		badRequest(c, "invalid walk format")
		return 0, 0, 0, false
	}

	return size, builtYear, walk, true
}
