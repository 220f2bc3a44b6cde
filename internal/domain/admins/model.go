package admins

import "time"

type Admin struct {
	ID           uint   `gorm:"column:admin_id;primaryKey" json:"admin_id"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_admins_username" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
