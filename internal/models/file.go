package models

import (
	"time"
)

type File struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	OriginalName  string     `json:"original_name" db:"original_name"`
	StorageBucket string     `json:"storage_bucket" db:"storage_bucket"`
	StoragePath   string     `json:"storage_path" db:"storage_path"`
	MimeType      string     `json:"mime_type" db:"mime_type"`
	FileSize      int64      `json:"file_size" db:"file_size"`
	Hash          string     `json:"hash" db:"hash"`
	ClassID       string     `json:"class_id" db:"class_id"`
	UploadedBy    string     `json:"uploaded_by" db:"uploaded_by"`
	FileType      string     `json:"file_type" db:"file_type"` // resource, assignment
	Deadline      *time.Time `json:"deadline,omitempty" db:"deadline"`
	Status        string     `json:"status" db:"status"` // uploaded, processing, complete, failed
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type FileType string

const (
	FileTypeResource   FileType = "resource"
	FileTypeAssignment FileType = "assignment"
)

func (ft FileType) String() string {
	return string(ft)
}

func IsValidFileType(fileType string) bool {
	switch fileType {
	case "resource", "assignment":
		return true
	default:
		return false
	}
}

type FileStatus string

const (
	FileStatusUploaded   FileStatus = "uploaded"
	FileStatusProcessing FileStatus = "processing"
	FileStatusComplete   FileStatus = "complete"
	FileStatusFailed     FileStatus = "failed"
)

func (fs FileStatus) String() string {
	return string(fs)
}
