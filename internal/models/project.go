package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Project is the persisted project row. Description and DesignerID are
// nullable; Files maps to a Postgres text[] column holding access URLs in
// upload order.
type Project struct {
	ID          uuid.UUID
	Title       string
	Description sql.NullString
	Files       []string
	Status      string
	BrandID     uuid.UUID
	DesignerID  uuid.NullUUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile mirrors the auth user's display data. Role is kept in sync with the
// auth provider's app_metadata claim, which stays the authoritative source;
// the mirror only exists so designer listings can be a table scan.
type Profile struct {
	ID        uuid.UUID
	FullName  string
	Role      sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Designer is the subset of a profile exposed to assignment pickers.
type Designer struct {
	ID       uuid.UUID
	FullName string
}
