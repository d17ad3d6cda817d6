package models

// UploadResult is what a successful upload yields to the user.
type UploadResult struct {
	PickupCode  string `json:"pickup_code"`
	FileGroupID string `json:"file_group_id"`
}

// Capability is the short-lived bearer credential obtained by redeeming a
// pickup code. It is scoped to one file group and never persisted.
type Capability struct {
	FileGroupID string
	Token       string
}

func (c Capability) Valid() bool {
	return c.FileGroupID != "" && c.Token != ""
}

// PickupResult is a successful redemption: the capability plus the file
// listing snapshot taken at redemption time.
type PickupResult struct {
	Capability Capability
	Files      []FileDescriptor
}

// DownloadRecord is one entry of a file group's download history.
type DownloadRecord struct {
	Filename string `json:"filename"`
	Time     string `json:"time"`
	IP       string `json:"ip"`
}

// FileGroup is the management view of an upload.
type FileGroup struct {
	PickupCode      string           `json:"pickup_code"`
	DownloadCount   int              `json:"download_count"`
	DownloadHistory []DownloadRecord `json:"download_history"`

	Files        []FileDescriptor `json:"files,omitempty"`
	CreatedAt    string           `json:"created_at,omitempty"`
	ExpiryDate   *string          `json:"expiry_date,omitempty"`
	MaxDownloads *int             `json:"max_downloads,omitempty"`
}
