package models

import (
	"time"
)

// ==================== CORE ENTITIES ====================

// Project represents one tracked construction project (job)
type Project struct {
	JobNo   string `json:"JobNo" binding:"required" example:"J2301"`
	Title   string `json:"Title" example:"Tank Farm Electrical Installation"`
	Address string `json:"Address" example:"12 Refinery Rd, Teesside"`
}

// Component is a reusable labor/material norm line item.
// (JobNo, Name, LabNorm) is unique - the same name may appear again only with a
// different LabNorm, which is how historical norms are versioned.
type Component struct {
	ID         int     `json:"ID" example:"101"`
	JobNo      string  `json:"JobNo" example:"J2301"`
	Name       string  `json:"Name" binding:"required" example:"25mm 4c SWA"`
	Code       string  `json:"Code" example:"cbs"`
	LabNorm    float64 `json:"LabNorm" example:"0.45"`
	LabUplift  float64 `json:"LabUplift" example:"0"`
	MatNorm    float64 `json:"MatNorm" example:"1.2"`
	SubConCost float64 `json:"SubConCost" example:"0"`
	SubConNorm float64 `json:"SubConNorm" example:"0"`
	PlantCost  float64 `json:"PlantCost" example:"0"`
}

// Code maps a short component code to its display name, e.g. 'blk' -> 'Blank'
type Code struct {
	ID    int    `json:"ID" example:"3"`
	JobNo string `json:"JobNo" example:"J2301"`
	Code  string `json:"Code" binding:"required" example:"blk"`
	Name  string `json:"Name" binding:"required" example:"Blank"`
}

// Template is one ordered component entry of a named equipment template
type Template struct {
	ID          int    `json:"ID" example:"55"`
	JobNo       string `json:"JobNo" example:"J2301"`
	TempName    string `json:"TempName" binding:"required" example:"LV Motor"`
	Component   string `json:"Component" example:"Gland 25mm"`
	InOrder     int    `json:"InOrder" example:"1"`
	ComponentID int    `json:"Component_ID" example:"101"`
}

// Equiplist is one equipment line: one row per equipment Ref per component of
// the template the Ref was created from. Complete is stored as a 0..1 fraction.
type Equiplist struct {
	ID          int     `json:"ID" example:"9001"`
	JobNo       string  `json:"JobNo" example:"J2301"`
	Ref         string  `json:"Ref" binding:"required" example:"P-101A"`
	Description string  `json:"Description" example:"Transfer Pump A"`
	Template    string  `json:"Template" example:"LV Motor"`
	Section     string  `json:"Section" example:"Pumps"`
	Area        string  `json:"Area" example:"Area 1"`
	Component   string  `json:"Component" example:"Gland 25mm"`
	Complete    float64 `json:"Complete" example:"0.5"`
	ComponentID int     `json:"Component_ID" example:"101"`
	TemplateID  int     `json:"Template_ID" example:"55"`
}

// Cabsched is one physical cable. The four completion fields are stored as
// 0..1 fractions; the read/write API converts to and from percent at the
// handler boundary only.
type Cabsched struct {
	JobNo       string  `json:"JobNo" example:"J2301"`
	CabNum      string  `json:"CabNum" binding:"required" example:"C-0001"`
	Length      float64 `json:"Length" example:"120"`
	EquipRef    string  `json:"EquipRef" example:"P-101A"`
	AGlandArea  string  `json:"AGlandArea" example:"Area 1"`
	ZGlandArea  string  `json:"ZGlandArea" example:"Area 2"`
	CabSize     string  `json:"CabSize" example:"25mm 4c SWA"`
	AGlandComp  float64 `json:"AGlandComp" example:"0"`
	ZGlandComp  float64 `json:"ZGlandComp" example:"0"`
	CabComp     float64 `json:"CabComp" example:"0"`
	CabTest     float64 `json:"CabTest" example:"0"`
	ComponentID int     `json:"Component_ID" example:"101"`
}

// TickCabBySC flags a cable as installed by a sub-contractor. Rows are created
// or deleted by the toggle action, never updated.
type TickCabBySC struct {
	JobNo  string `json:"JobNo" example:"J2301"`
	CabNum string `json:"CabNum" example:"C-0001"`
	YN     bool   `json:"YN" example:"true"`
}

// Revision is one row of the append-only equipment audit log
type Revision struct {
	Number   int       `json:"Number" example:"17"`
	JobNo    string    `json:"JobNo" example:"J2301"`
	Revision string    `json:"Revision" example:"RV-03"`
	ItemRef  string    `json:"Item_Ref" example:"P-101A"`
	ItemDesc string    `json:"Item_Desc" example:"Transfer Pump A"`
	Notes    string    `json:"Notes" example:"Template changed to LV Motor"`
	Dated    time.Time `json:"Dated"`
}

// ==================== AUTH ====================

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Suspended bool      `json:"suspended"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	UserID                int       `json:"user_id"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"secret"`
	IP       string `json:"ip" example:"10.0.0.5"`
}

// ==================== REQUEST MODELS ====================

// CreateEquipmentRequest creates a Ref from a template: one equiplist row is
// inserted per component of the template, all inside one transaction.
type CreateEquipmentRequest struct {
	Ref         string `json:"Ref" binding:"required" example:"P-101A"`
	Description string `json:"Description" example:"Transfer Pump A"`
	Template    string `json:"Template" binding:"required" example:"LV Motor"`
	Section     string `json:"Section" example:"Pumps"`
	Area        string `json:"Area" example:"Area 1"`
}

// ChangeTemplateRequest reassigns an existing Ref to a different template.
// The Ref itself comes from the URL path, never the body.
type ChangeTemplateRequest struct {
	Template    string `json:"Template" binding:"required" example:"LV Motor"`
	Description string `json:"Description" example:"Transfer Pump A"`
	Section     string `json:"Section" example:"Pumps"`
	Area        string `json:"Area" example:"Area 1"`
}

// UpdateEquipmentRequest patches the descriptive fields of every line of a Ref
type UpdateEquipmentRequest struct {
	Description *string `json:"Description,omitempty"`
	Section     *string `json:"Section,omitempty"`
	Area        *string `json:"Area,omitempty"`
}

// CableCompletionUpdate carries the cable completion percentages (0..100) of a
// PUT request. Nil fields are left untouched. Values are divided by 100 before
// they reach the store.
type CableCompletionUpdate struct {
	CabComp    *float64 `json:"CabComp,omitempty" example:"75"`
	AGlandComp *float64 `json:"AGlandComp,omitempty" example:"100"`
	ZGlandComp *float64 `json:"ZGlandComp,omitempty" example:"50"`
	CabTest    *float64 `json:"CabTest,omitempty" example:"0"`
}

// EquipCompletionUpdate carries a single component-line completion percentage
type EquipCompletionUpdate struct {
	Complete *float64 `json:"Complete" binding:"required" example:"50"`
}

// BulkCompletionItem is one mutation of a bulk completion request
type BulkCompletionItem struct {
	Kind       string   `json:"kind" binding:"required" example:"equip"` // "equip" or "cable"
	ID         int      `json:"id,omitempty" example:"9001"`
	CabNum     string   `json:"CabNum,omitempty" example:"C-0001"`
	Complete   *float64 `json:"Complete,omitempty" example:"50"`
	CabComp    *float64 `json:"CabComp,omitempty"`
	AGlandComp *float64 `json:"AGlandComp,omitempty"`
	ZGlandComp *float64 `json:"ZGlandComp,omitempty"`
	CabTest    *float64 `json:"CabTest,omitempty"`
}

// CompletionByCodeRequest sets Complete per component code across a Ref set
type CompletionByCodeRequest struct {
	Refs  []string           `json:"refs" binding:"required" example:"P-101A,P-101B"`
	Codes map[string]float64 `json:"codes" binding:"required"` // code -> percent 0..100
}
