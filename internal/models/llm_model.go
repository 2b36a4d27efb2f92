package models

// ModelTag is one model known to the local server. It is rebuilt on every
// list call and never cached.
type ModelTag struct {
	Name string  `json:"name"`
	Size *uint64 `json:"size,omitempty"`
}

// PullProgress is one status update reported by the server while it downloads
// a model.
type PullProgress struct {
	Model     string `json:"model"`
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Completed int64  `json:"completed"`
	Total     int64  `json:"total"`
}

// OllamaStatus is the supervisor's view of the local server.
type OllamaStatus struct {
	Running bool   `json:"running"`
	State   string `json:"state"`
	BaseURL string `json:"baseUrl"`
	Pid     int    `json:"pid,omitempty"`
}

// CatalogModel is a model suggested for download. Installed is filled in from
// the server's listing when it is reachable.
type CatalogModel struct {
	Tag         string `json:"tag"`
	DisplayName string `json:"displayName"`
	Family      string `json:"family"`
	SizeHint    string `json:"sizeHint,omitempty"`
	Installed   bool   `json:"installed"`
}

type CatalogFamily struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"displayName"`
	Models      []CatalogModel `json:"models"`
}
