package model

import "time"

// File represents stored file metadata.
//
// Name and Extension describe the file as the client named it; Filename is the
// server-generated on-disk name the blob actually lives under. The two are
// distinct on purpose: clients may upload colliding names, the disk may not.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Extension string    `json:"extension"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
