package models

// ErrorResponse is the generic error body returned by handlers
type ErrorResponse struct {
	Error   string `json:"error" example:"equipment line not found"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is a simple acknowledgement body
type MessageResponse struct {
	Message string `json:"message" example:"Component created successfully"`
}

type LoginResponse struct {
	Message      string `json:"message" example:"Login successful"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	User         *User  `json:"user"`
}

type ValidateSessionResponse struct {
	Message   string `json:"message" example:"Session validated"`
	SessionID string `json:"session_id"`
	HostName  string `json:"host_name"`
}

// DashboardResponse bundles the summary with the per-area breakdown for the
// project dashboard
type DashboardResponse struct {
	Summary JobSummary  `json:"summary"`
	ByArea  []RollupRow `json:"by_area"`
}
