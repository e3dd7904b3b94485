package models

import "time"

type PresignUploadRequest struct {
	Folder      string `json:"folder" validate:"required"`
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
}

// PresignedUpload is returned to the admin UI. The client PUTs the file to
// UploadURL and stores Location on the course, lesson or book.
type PresignedUpload struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	Location  string    `json:"location"`
	ExpiresAt time.Time `json:"expiresAt"`
}
