package dto

import "time"

// Wire types of the RAG backend. Field names follow the backend's snake_case
// JSON contract.

type DocumentResponse struct {
	Id               string     `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	FilePath         string     `json:"file_path,omitempty"`
	FileSize         *int64     `json:"file_size,omitempty"`
	PageCount        *int       `json:"page_count,omitempty"`
	UploadDate       time.Time  `json:"upload_date"`
	Processed        *time.Time `json:"processed,omitempty"`
}

type DocumentBriefResponse struct {
	Id               string `json:"id"`
	OriginalFilename string `json:"original_filename"`
	FileSize         *int64 `json:"file_size,omitempty"`
	PageCount        *int   `json:"page_count,omitempty"`
}

type CreateSessionRequest struct {
	Title       *string  `json:"title,omitempty"`
	DocumentIds []string `json:"document_ids,omitempty"`
}

type SessionResponse struct {
	Id                string                  `json:"id"`
	Title             *string                 `json:"title"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	DocumentIds       []string                `json:"document_ids"`
	AttachedDocuments []DocumentBriefResponse `json:"attached_documents"`
}

type SessionWithMessagesResponse struct {
	SessionResponse
	Messages []MessageResponse `json:"messages"`
}

type MessageResponse struct {
	Id        string    `json:"id"`
	SessionId string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Citations []string  `json:"citations"`
}

type SendMessageRequest struct {
	Message           string   `json:"message"`
	SessionId         *string  `json:"session_id,omitempty"`
	AttachDocumentIds []string `json:"attach_document_ids,omitempty"`
	FilterDocumentId  *string  `json:"filter_document_id,omitempty"`
}

type SourceChunkResponse struct {
	ChunkId      string  `json:"chunk_id"`
	Content      string  `json:"content"`
	Similarity   float64 `json:"similarity"`
	DocumentId   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	PageNumber   *int    `json:"page_number,omitempty"`
	MediaType    string  `json:"media_type"`
	ImageUrl     *string `json:"image_url,omitempty"`
	Caption      *string `json:"caption,omitempty"`
}

type SendMessageResponse struct {
	SessionId string                `json:"session_id"`
	Message   MessageResponse       `json:"message"`
	Citations []string              `json:"citations"`
	Sources   []SourceChunkResponse `json:"sources"`
}

type ChunkDocumentResponse struct {
	Id       string `json:"id"`
	Filename string `json:"filename"`
}

type ChunkDetailResponse struct {
	ChunkId    string                 `json:"chunk_id"`
	Content    string                 `json:"content"`
	MediaType  string                 `json:"media_type"`
	PageNumber *int                   `json:"page_number,omitempty"`
	Bbox       map[string]interface{} `json:"bbox,omitempty"`
	ImageUrl   *string                `json:"image_url,omitempty"`
	Caption    *string                `json:"caption,omitempty"`
	Document   *ChunkDocumentResponse `json:"document,omitempty"`
}

// ErrorResponse is the backend's error body.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}
