package overtime

import "time"

// Request is an approved overtime request. StartTime/EndTime are "HH:MM" in
// Asia/Manila. EndDate is set when the request runs past midnight.
type Request struct {
	ID         string
	EmployeeID string
	Date       time.Time
	EndDate    *time.Time
	StartTime  string
	EndTime    string
	TotalHours float64
	Status     string
	CreatedAt  time.Time
}

const StatusApproved = "approved"
