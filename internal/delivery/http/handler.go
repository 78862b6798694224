package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maisonvault/backfill/internal/domain"
	"github.com/maisonvault/backfill/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	backfillService *usecase.BackfillService
}

// NewHandler creates a new HTTP handler
func NewHandler(backfillService *usecase.BackfillService) *Handler {
	return &Handler{
		backfillService: backfillService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "backfill-backend",
		"version": "1.0.0",
	})
}

// evaluateRequest is the body for the evaluate endpoint. ID may be a
// full gid or a bare numeric export-row identifier.
type evaluateRequest struct {
	ID string `json:"id" binding:"required"`
}

// EvaluateProduct classifies a product's existing description and, when
// regeneration is warranted, returns the structured specification that
// would be sent to the generation service. The generation service is
// never called from this endpoint.
func (h *Handler) EvaluateProduct(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must include a non-empty id"})
		return
	}

	record, outcome, err := h.backfillService.EvaluateProduct(c.Request.Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProductID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	resp := gin.H{
		"product":  usecase.IdentityOf(record),
		"decision": outcome,
	}
	if outcome.ShouldProcess {
		resp["structured"] = usecase.BuildSpecification(record, outcome.EditorNote)
	}

	c.JSON(http.StatusOK, resp)
}
