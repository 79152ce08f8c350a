package model

// Tag is a user label. Tags live as one JSON list inside the settings store.
type Tag struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Color    int32  `json:"color"`
	Selected bool   `json:"selected"`
}

// OffsetItem is a quick-pick reminder offset, in seconds.
type OffsetItem struct {
	ID     int64 `json:"id"`
	Offset int   `json:"offset"`
}
