package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/dto"
	apierrors "github.com/seth-walker/HRIS/internal/errors"
	"github.com/seth-walker/HRIS/internal/services"
	"github.com/seth-walker/HRIS/internal/utils"
)

type AuditLogHandler struct {
	auditService *services.AuditService
	log          *zap.Logger
}

func NewAuditLogHandler(auditService *services.AuditService, log *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditService: auditService,
		log:          log,
	}
}

// ListAuditLogs returns a filtered page of audit entries, newest first
func (h *AuditLogHandler) ListAuditLogs(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var query dto.ListAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.BadRequest(c, "Invalid query parameters")
		return
	}

	params := utils.GetPaginationParams(c)
	input, err := query.ToInput(params)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	logs, total, err := h.auditService.List(c.Request.Context(), actor, input)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuditLogListResponse{
		AuditLogs: dto.ToAuditLogDTOs(logs),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetEntityHistory returns every audit entry for one entity
func (h *AuditLogHandler) GetEntityHistory(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	logs, err := h.auditService.ByEntity(c.Request.Context(), actor, c.Query("entity_type"), c.Query("entity_id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditLogDTOs(logs))
}
