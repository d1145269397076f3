package models

import "time"

// Node is a managed node; the nodes list endpoint serves these.
type Node struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name for Node Model
func (Node) TableName() string {
	return "nodes"
}
