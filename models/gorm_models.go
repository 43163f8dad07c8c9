package models

import (
	"time"
)

// GORM-compatible models with proper tags

// ProjectGorm represents the project table with GORM tags
type ProjectGorm struct {
	JobNo     string    `gorm:"primaryKey;column:jobno" json:"JobNo" example:"J2301"`
	Title     string    `gorm:"column:title;not null" json:"Title" example:"Tank Farm Electrical Installation"`
	Address   string    `gorm:"column:address" json:"Address" example:"12 Refinery Rd, Teesside"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for ProjectGorm
func (ProjectGorm) TableName() string {
	return "project"
}

// RevisionGorm represents the revisions audit table with GORM tags. Rows are
// append-only: written on equipment create/update/delete, never read by the
// rollup engine.
type RevisionGorm struct {
	Number   int       `gorm:"primaryKey;autoIncrement;column:number" json:"Number"`
	JobNo    string    `gorm:"column:jobno;not null;index" json:"JobNo"`
	Revision string    `gorm:"column:revision;not null" json:"Revision"`
	ItemRef  string    `gorm:"column:item_ref" json:"Item_Ref"`
	ItemDesc string    `gorm:"column:item_desc" json:"Item_Desc"`
	Notes    string    `gorm:"column:notes" json:"Notes"`
	Dated    time.Time `gorm:"column:dated;not null" json:"Dated"`
}

// TableName specifies the table name for RevisionGorm
func (RevisionGorm) TableName() string {
	return "revisions"
}
