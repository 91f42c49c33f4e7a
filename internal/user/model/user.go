package model

import (
	"time"

	"gorm.io/gorm"
)

// Status is the lifecycle status of a user.
//
// The seeded dataset uses active/inactive/pending; the admin screen only
// distinguishes active from everything else and writes back "absent" when
// toggling, so "absent" is a legal stored value too.
type Status string

// Known status values.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
	StatusAbsent   Status = "absent"
)

// IsActive reports whether the status counts as active in the admin UI.
func (s Status) IsActive() bool {
	return s == StatusActive
}

// Project is the project a user is assigned to.
type Project struct {
	Name     string `gorm:"column:project_name;type:varchar(255)"     json:"name"`
	LogoURL  string `gorm:"column:project_logo_url;type:varchar(512)" json:"logoUrl"`
	Subtitle string `gorm:"column:project_subtitle;type:varchar(255)" json:"subtitle"`
}

// Document is a file attached to a user record.
type Document struct {
	ID     int64   `gorm:"primaryKey;column:id"               json:"id"`
	UserID int64   `gorm:"column:user_id;index:idx_docs_user" json:"-"`
	Name   string  `gorm:"column:name;type:varchar(255)"      json:"name"`
	SizeMB float64 `gorm:"column:size_mb"                     json:"sizeMB"`
	Type   string  `gorm:"column:type;type:varchar(32)"       json:"type"` // pdf, doc or image
}

// TableName specifies the table name for GORM.
func (Document) TableName() string {
	return "documents"
}

// User represents a user entity in the system.
// JSON field names are the wire contract consumed by the admin screen.
type User struct {
	ID        int64      `gorm:"primaryKey;column:id"                                            json:"id"`
	Name      string     `gorm:"column:name;type:varchar(255);not null"                          json:"name"`
	Email     string     `gorm:"column:email;type:varchar(255);not null"                         json:"email"`
	AvatarURL string     `gorm:"column:avatar_url;type:varchar(512)"                             json:"avatarUrl"`
	Title     string     `gorm:"column:title;type:varchar(255)"                                  json:"title"`
	JoinedAt  string     `gorm:"column:joined_at;type:varchar(64)"                               json:"joinedAt"` // ISO date
	Project   Project    `gorm:"embedded"                                                        json:"project"`
	Documents []Document `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"                   json:"documents"`
	Status    Status     `gorm:"column:status;type:varchar(32);not null;index:idx_users_status"  json:"status"`
	CreatedAt time.Time  `gorm:"column:created_at;not null"                                      json:"-"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"                                      json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
