package models

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TagRequest struct {
	Name string `json:"name"`
}

type TagIDsRequest struct {
	TagIDs []int `json:"tag_ids"`
}
