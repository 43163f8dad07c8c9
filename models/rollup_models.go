package models

// RollupRow is one aggregated group of the completion rollup. Which key fields
// are populated depends on the requested grouping. PercentComplete is nil when
// the group has no recoverable hours (TotalHours == 0).
type RollupRow struct {
	Ref             string   `json:"Ref,omitempty" example:"P-101A"`
	Section         string   `json:"Section,omitempty" example:"Pumps"`
	Area            string   `json:"Area,omitempty" example:"Area 1"`
	Component       string   `json:"Component,omitempty" example:"Gland 25mm"`
	TotalHours      float64  `json:"TotalHours" example:"18"`
	RecoveredHours  float64  `json:"RecoveredHours" example:"9"`
	PercentComplete *float64 `json:"PercentComplete" example:"50"`
}

// TenderHoursRow is one line of the tender-hours view
type TenderHoursRow struct {
	Ref         string  `json:"Ref" example:"P-101A"`
	Description string  `json:"Description" example:"Transfer Pump A"`
	TotalHours  float64 `json:"TotalHours" example:"18"`
}

// JobSummary is the project-wide completion summary
type JobSummary struct {
	TotalTenderHours      float64 `json:"totalTenderHours" example:"1250.5"`
	TotalRecoveredHours   float64 `json:"totalRecoveredHours" example:"640.25"`
	DdtCableSubConHours   float64 `json:"ddtCableSubConHours" example:"120"`
	NetHoursRecovered     float64 `json:"netHoursRecovered" example:"520.25"`
	GlobalPercentComplete float64 `json:"globalPercentComplete" example:"51.2"`
}

// CompletionResult pairs an updated line item with the recomputed rollup row
// of its equipment reference
type CompletionResult struct {
	UpdatedEquip    *Equiplist `json:"updated_equip,omitempty"`
	UpdatedCable    *Cabsched  `json:"updated_cable,omitempty"`
	RecalculatedRow *RollupRow `json:"recalculated_row"`
}

// BulkCompletionResult collects the outcome of a bulk completion request. A
// failed item never aborts the batch.
type BulkCompletionResult struct {
	Success  []CompletionResult `json:"success"`
	Failures []BulkItemFailure  `json:"failures"`
	Rollups  []RollupRow        `json:"rollups"`
}

// BulkItemFailure attributes a failure to one input item of a bulk request
type BulkItemFailure struct {
	Index  int    `json:"index" example:"2"`
	ID     int    `json:"id,omitempty" example:"9001"`
	CabNum string `json:"CabNum,omitempty"`
	Error  string `json:"error" example:"equipment line not found"`
}
