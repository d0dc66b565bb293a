package models

// FileUploadRequest describes one requested upload slot on the
// presigned-URL path. It is transient and never persisted.
type FileUploadRequest struct {
	FieldName   string `json:"field_name"`
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

// UploadGrant is a time-limited permission to PUT one specific object
// directly to storage. The validity window is fixed at issuance.
type UploadGrant struct {
	FieldName   string `json:"field_name"`
	FileName    string `json:"file_name"`
	ObjectKey   string `json:"s3_key"`
	UploadURL   string `json:"upload_url"`
	ExpiresIn   int64  `json:"expires_in"`
	ContentType string `json:"content_type"`
	MaxFileSize int64  `json:"max_file_size"`
}
