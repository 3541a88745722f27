package models

import "time"

// Coordinate is a single vertex of the polygon a citizen draws around the lot.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Complaint struct {
	ID             int            `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	Status         string         `json:"status"`
	UserID         int            `json:"user_id"`
	AuthorNickname string         `json:"author_nickname,omitempty"`
	Polygon        []Coordinate   `json:"polygon_coordinates,omitempty"`
	Images         []string       `json:"images,omitempty"`
	Tags           []Tag          `json:"tags,omitempty"`
	Logs           []ComplaintLog `json:"logs,omitempty"`
	Comments       []Comment      `json:"comments,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"`
}

// ComplaintLog is one append-only audit entry of the complaint status history.
// OldStatus is nil exactly once per complaint, on the creation entry.
type ComplaintLog struct {
	ID                int       `json:"id"`
	ComplaintID       int       `json:"complaint_id"`
	OldStatus         *string   `json:"old_status"`
	NewStatus         string    `json:"new_status"`
	ChangedBy         int       `json:"changed_by"`
	ChangedByNickname string    `json:"changed_by_nickname,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreateComplaintRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Polygon     []Coordinate `json:"polygon_coordinates"`
	TagIDs      []int        `json:"tag_ids"`
}

type UpdateComplaintRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Polygon     []Coordinate `json:"polygon_coordinates"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}
