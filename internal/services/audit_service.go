package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/repository"
)

type clientIPKey struct{}

// WithClientIP stores the caller's address for audit entries.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// AuditEntry is one mutation to record.
type AuditEntry struct {
	ActorID    string
	Action     models.AuditAction
	EntityType string
	EntityID   *string
	Changes    interface{}
}

// AuditService writes audit entries to the store and mirrors them to zap.
type AuditService struct {
	auditRepo repository.AuditLogRepository
	log       *zap.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo repository.AuditLogRepository, log *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		log:       log,
	}
}

// Record appends an audit entry. Failures are logged and never returned, so a
// failed audit write does not undo the mutation it describes.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil {
		return
	}

	var payload datatypes.JSON
	if entry.Changes != nil {
		raw, err := json.Marshal(entry.Changes)
		if err != nil {
			s.log.Warn("failed to encode audit changes", zap.Error(err), zap.String("action", string(entry.Action)))
		} else {
			payload = datatypes.JSON(raw)
		}
	}

	row := &models.AuditLog{
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Changes:    payload,
		IPAddress:  clientIPFrom(ctx),
	}
	if entry.ActorID != "" {
		actor := entry.ActorID
		row.UserID = &actor
	}

	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("action", string(entry.Action)),
		zap.String("entity_type", entry.EntityType),
		zap.String("actor_id", entry.ActorID),
		zap.String("ip", row.IPAddress),
	}
	if entry.EntityID != nil {
		fields = append(fields, zap.String("entity_id", *entry.EntityID))
	}
	s.log.Info("audit event", fields...)

	if err := s.auditRepo.Create(ctx, row); err != nil {
		s.log.Warn("failed to store audit event", append(fields, zap.Error(err))...)
	}
}

// ListAuditLogsInput holds filters for browsing the audit log.
type ListAuditLogsInput struct {
	UserID     *string
	EntityType *string
	EntityID   *string
	Action     *models.AuditAction
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// List returns a page of audit entries, newest first.
func (s *AuditService) List(ctx context.Context, actor access.Principal, input ListAuditLogsInput) ([]models.AuditLog, int64, error) {
	if err := access.Authorize(actor, access.ActionViewAuditLogs); err != nil {
		return nil, 0, err
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, 0, validationError("end_date must not be before start_date")
	}

	logs, total, err := s.auditRepo.List(ctx, repository.AuditLogFilter{
		UserID:     input.UserID,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Action:     input.Action,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}

// ByEntity returns the full history of one entity.
func (s *AuditService) ByEntity(ctx context.Context, actor access.Principal, entityType, entityID string) ([]models.AuditLog, error) {
	if err := access.Authorize(actor, access.ActionViewAuditLogs); err != nil {
		return nil, err
	}
	if entityType == "" || entityID == "" {
		return nil, validationError("entity_type and entity_id are required")
	}

	logs, err := s.auditRepo.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

func stringRef(s string) *string {
	return &s
}
