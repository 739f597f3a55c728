package models

import "time"

// CVFile records an archived CV upload. Rows are only written when GCS
// archival is configured; the interview flow itself never reads them.
type CVFile struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FileName   string    `gorm:"column:file_name;type:text" json:"file_name"`
	ObjectPath string    `gorm:"column:object_path;type:text" json:"object_path"`
	FileSize   int       `gorm:"column:file_size;type:integer" json:"file_size"`
	MimeType   string    `gorm:"column:mime_type;type:text" json:"mime_type"`
	UploadAt   time.Time `gorm:"column:upload_at;type:timestamptz" json:"upload_at"`
}

func (CVFile) TableName() string { return "cv_files" }
