package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/seth-walker/HRIS/internal/constants"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/services"
	"github.com/seth-walker/HRIS/internal/utils"
)

// ListAuditLogsQuery holds the query string filters of GET /api/audit-logs
type ListAuditLogsQuery struct {
	UserID     string `form:"user_id"`
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
	Action     string `form:"action"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

// ToInput converts the query to service input. Dates are YYYY-MM-DD or RFC 3339.
func (q ListAuditLogsQuery) ToInput(params utils.PaginationParams) (services.ListAuditLogsInput, error) {
	input := services.ListAuditLogsInput{
		UserID:     optionalString(q.UserID),
		EntityType: optionalString(q.EntityType),
		EntityID:   optionalString(q.EntityID),
		Page:       params.Page,
		PageSize:   params.Limit,
	}
	if q.Action != "" {
		action := models.AuditAction(q.Action)
		input.Action = &action
	}

	var err error
	if input.StartDate, err = optionalDate(q.StartDate); err != nil {
		return input, err
	}
	if input.EndDate, err = optionalDate(q.EndDate); err != nil {
		return input, err
	}
	// A bare end date covers the whole day.
	if input.EndDate != nil && len(q.EndDate) == len(constants.DateLayout) {
		end := input.EndDate.Add(24*time.Hour - time.Nanosecond)
		input.EndDate = &end
	}
	return input, nil
}

// AuditLogDTO represents an audit entry in API responses
type AuditLogDTO struct {
	ID         string             `json:"id"`
	UserID     *string            `json:"user_id"`
	UserEmail  *string            `json:"user_email,omitempty"`
	Action     models.AuditAction `json:"action"`
	EntityType string             `json:"entity_type"`
	EntityID   *string            `json:"entity_id"`
	Changes    datatypes.JSON     `json:"changes"`
	IPAddress  string             `json:"ip_address"`
	CreatedAt  time.Time          `json:"created_at"`
}

// AuditLogListResponse represents a page of audit entries
type AuditLogListResponse struct {
	AuditLogs  []AuditLogDTO            `json:"audit_logs"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToAuditLogDTO converts an AuditLog model to AuditLogDTO
func ToAuditLogDTO(a models.AuditLog) AuditLogDTO {
	dto := AuditLogDTO{
		ID:         a.ID,
		UserID:     a.UserID,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Changes:    a.Changes,
		IPAddress:  a.IPAddress,
		CreatedAt:  a.CreatedAt,
	}
	if a.User != nil {
		email := a.User.Email
		dto.UserEmail = &email
	}
	return dto
}

// ToAuditLogDTOs converts a slice of audit entries
func ToAuditLogDTOs(logs []models.AuditLog) []AuditLogDTO {
	dtos := make([]AuditLogDTO, len(logs))
	for i, a := range logs {
		dtos[i] = ToAuditLogDTO(a)
	}
	return dtos
}
