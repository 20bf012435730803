package models

// Attachment tracks an uploaded file's metadata. The row is created at
// upload time with no owning message; the link is set when the message
// commits. A row whose MessageID stays nil is an orphan and will be reaped
// by the cleaner. The blob itself lives in external storage and is only
// referenced here by path.
type Attachment struct {
	BaseModel

	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`

	MessageID  *uint    `json:"message_id"`
	Message    *Message `json:"message"`
	UploaderID uint     `json:"uploader_id"`
}
