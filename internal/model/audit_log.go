package model

import "time"

// Audit action tags recorded against mutating operations.
const (
	ActionCreateCompany  = "CREATE_COMPANY"
	ActionUpdateCompany  = "UPDATE_COMPANY"
	ActionDeleteCompany  = "DELETE_COMPANY"
	ActionAllocation     = "ALLOCATION"
	ActionImport         = "IMPORT"
	ActionUpdate         = "UPDATE"
	ActionDelete         = "DELETE"
	ActionCancel         = "CANCEL"
	ActionRestore        = "RESTORE"
	ActionClearAll       = "CLEAR_ALL"
	ActionGeneratePermit = "GENERATE_PERMIT"
	ActionLoading        = "LOADING"
	ActionBackup         = "BACKUP"
	ActionRestoreBackup  = "RESTORE_BACKUP"
)

// AuditLog is an append-only record of a mutating action. A nil CompanyID
// marks a global (admin-level) entry. Entries are never updated; they are
// removed only when their company is cascade-deleted.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CompanyID  *uint     `json:"company_id" gorm:"index"`
	Action     string    `json:"action" gorm:"type:varchar(50);not null"`
	EntityType string    `json:"entity_type" gorm:"type:varchar(50);not null"`
	EntityID   *uint     `json:"entity_id"`
	Details    string    `json:"details" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}
