package models

// Stats is the admin dashboard payload. Cached in Redis for a short TTL.
type Stats struct {
	TotalComplaints    int            `json:"total_complaints"`
	ComplaintsByStatus map[string]int `json:"complaints_by_status"`
	TotalUsers         int            `json:"total_users"`
	TotalComments      int            `json:"total_comments"`
	PendingReports     int            `json:"pending_reports"`
}
