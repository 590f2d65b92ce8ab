package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/service"
)

const DefaultPageSize = 20

type TokenHandler struct {
	tokenService *service.TokenService
	maxPageSize  int
	logger       *logrus.Entry
}

func NewTokenHandler(tokenService *service.TokenService, maxPageSize int, logger *logrus.Entry) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
		maxPageSize:  maxPageSize,
		logger:       logger,
	}
}

func (h *TokenHandler) List(c *gin.Context) {
	query, err := h.parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.tokenService.List(c.Request.Context(), query)
	if errors.Is(err, service.ErrInvalidCursor) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid cursor"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Token listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TokenHandler) Get(c *gin.Context) {
	address := c.Param("address")

	record, ok, err := h.tokenService.GetToken(c.Request.Context(), address)
	if err != nil {
		h.logger.WithError(err).Error("Token lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Token not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *TokenHandler) parseListQuery(c *gin.Context) (domain.ListQuery, error) {
	query := domain.ListQuery{
		SortBy:  domain.MetricVolume,
		SortDir: domain.SortDesc,
		Period:  domain.TimeframeDay,
		Limit:   DefaultPageSize,
		Cursor:  c.Query("cursor"),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > h.maxPageSize {
			return domain.ListQuery{}, fmt.Errorf("limit must be an integer between 1 and %d", h.maxPageSize)
		}
		query.Limit = limit
	}
	if raw := c.Query("sortBy"); raw != "" {
		metric, ok := domain.ParseMetric(raw)
		if !ok {
			return domain.ListQuery{}, fmt.Errorf("unknown sortBy %q", raw)
		}
		query.SortBy = metric
	}
	if raw := c.Query("sortDir"); raw != "" {
		dir, ok := domain.ParseSortDir(raw)
		if !ok {
			return domain.ListQuery{}, fmt.Errorf("sortDir must be asc or desc")
		}
		query.SortDir = dir
	}
	if raw := c.Query("period"); raw != "" {
		period, ok := domain.ParseTimeframe(raw)
		if !ok {
			return domain.ListQuery{}, fmt.Errorf("unknown period %q", raw)
		}
		query.Period = period
	}

	return query, nil
}
