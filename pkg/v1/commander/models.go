package commander

// SyncCommand is the message asking the worker to sync catalogs.
type SyncCommand struct {
	TaskID      string   `json:"taskId"`
	OperatorID  string   `json:"operatorId"`
	CatalogURLs []string `json:"catalogUrls"`
}
