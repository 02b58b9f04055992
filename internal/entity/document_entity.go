package entity

import "time"

type Document struct {
	Id               string     `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	Size             *int64     `json:"size,omitempty"`
	PageCount        *int       `json:"page_count,omitempty"`
	Processed        *time.Time `json:"processed,omitempty"`
	UploadDate       time.Time  `json:"upload_date"`
}

// DisplayName is the name shown to the user and matched by the @ filter.
func (d Document) DisplayName() string {
	if d.OriginalFilename != "" {
		return d.OriginalFilename
	}
	return d.Filename
}

func (d Document) Brief() DocumentBrief {
	return DocumentBrief{
		Id:               d.Id,
		OriginalFilename: d.DisplayName(),
		Size:             d.Size,
		PageCount:        d.PageCount,
	}
}

// DocumentBrief is the projection of a Document attached to a Session.
type DocumentBrief struct {
	Id               string `json:"id"`
	OriginalFilename string `json:"original_filename"`
	Size             *int64 `json:"size,omitempty"`
	PageCount        *int   `json:"page_count,omitempty"`
}
