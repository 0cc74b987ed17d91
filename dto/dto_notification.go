package dto

type UnreadCountResp struct {
	Count int64 `json:"count"`
}

type MarkAllReadResp struct {
	Updated int64 `json:"updated"`
}
