// Package query provides tenant scoping and list filtering primitives used by
// every repository that touches tenant-owned tables.
package query

import (
	"gorm.io/gorm"
)

// TenantScope returns a gorm scope constraining a query to one tenant. Every
// read, update, delete and count against a tenant-owned table goes through
// it; the tenant id is an explicit parameter at every call site rather than
// hidden middleware, so scoping is testable as a pure function of inputs.
func TenantScope(tenantID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// NotDeleted excludes soft-deleted rows. gorm's DeletedAt handles this for
// model-typed queries; this scope covers raw table expressions (counts,
// plucks) where the model callbacks do not apply.
func NotDeleted() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}

// protectedFields are system-owned columns a client payload may never set.
// Stripping them is the second, independent defense behind explicit-parameter
// scoping: it guards call sites that accept partial JSON payloads outside the
// scoped repository path.
var protectedFields = []string{
	"id",
	"sid",
	"tenant_id",
	"tenantId",
	"created_at",
	"createdAt",
	"updated_at",
	"updatedAt",
	"deleted_at",
	"deletedAt",
}

// SanitizePayload removes protected system fields from a client-supplied
// payload in place and returns it. A forged tenant_id or id in the payload is
// silently dropped; the scoped repository stamps the authoritative values.
func SanitizePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	for _, f := range protectedFields {
		delete(payload, f)
	}
	return payload
}

// ProtectedFields returns the protected field list for documentation and
// tests. The returned slice is a copy.
func ProtectedFields() []string {
	out := make([]string, len(protectedFields))
	copy(out, protectedFields)
	return out
}
