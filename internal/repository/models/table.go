package models

// TableInfo describes one survey table written by the import backend.
type TableInfo struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}
