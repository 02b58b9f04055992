package entity

import "time"

type ChatSession struct {
	Id                string          `json:"id"`
	Title             string          `json:"title"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	AttachedDocuments []DocumentBrief `json:"attached_documents"`
}

// DisplayTitle falls back to a placeholder for untitled sessions.
func (s ChatSession) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return "New chat"
}

// HasDocument reports whether documentId is already attached.
func (s ChatSession) HasDocument(documentId string) bool {
	for _, d := range s.AttachedDocuments {
		if d.Id == documentId {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with s.
func (s ChatSession) Clone() ChatSession {
	s.AttachedDocuments = append([]DocumentBrief(nil), s.AttachedDocuments...)
	return s
}
