package store

import (
	"go.uber.org/zap"

	"permit-service/internal/model"
	"permit-service/pkg/logger"
)

const defaultAuditLimit = 100

// RecordAudit appends an audit entry. The write is best-effort: a failure is
// logged and swallowed so observability never blocks the operation that
// triggered it. Pass companyID 0 for a global entry.
func (s *Store) RecordAudit(action, entityType string, entityID *uint, details string, companyID uint) {
	entry := model.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if companyID != 0 {
		entry.CompanyID = &companyID
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.GetLogger().Warn("failed to write audit entry",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.Error(err))
	}
}

// AuditLogs returns the most recent entries first. When scoped to a company
// the result also includes global (company-less) entries; that inclusive
// filter is intentional. A limit of 0 falls back to the default.
func (s *Store) AuditLogs(companyID uint, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	query := s.db.Order("id DESC").Limit(limit)
	if companyID != 0 {
		query = query.Where("company_id = ? OR company_id IS NULL", companyID)
	}
	var entries []model.AuditLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
