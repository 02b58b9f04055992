package entity

type MediaType string

const (
	MediaText  MediaType = "text"
	MediaTable MediaType = "table"
	MediaImage MediaType = "image"
)

// SourceChunk is one piece of retrieved evidence for the latest answer.
type SourceChunk struct {
	ChunkId      string    `json:"chunk_id"`
	Content      string    `json:"content"`
	Similarity   float64   `json:"similarity"`
	DocumentId   string    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	PageNumber   *int      `json:"page_number,omitempty"`
	MediaType    MediaType `json:"media_type"`
	ImageUrl     string    `json:"image_url,omitempty"`
	Caption      string    `json:"caption,omitempty"`
}

// ActiveSource is the chunk currently under inspection.
type ActiveSource struct {
	Chunk           SourceChunk `json:"chunk"`
	HighlightedText string      `json:"highlighted_text,omitempty"`
}

// ChunkDetail is the backend's view of a single chunk, used when a citation
// no longer resolves against the current evidence set.
type ChunkDetail struct {
	ChunkId          string                 `json:"chunk_id"`
	Content          string                 `json:"content"`
	MediaType        MediaType              `json:"media_type"`
	PageNumber       *int                   `json:"page_number,omitempty"`
	Bbox             map[string]interface{} `json:"bbox,omitempty"`
	ImageUrl         string                 `json:"image_url,omitempty"`
	Caption          string                 `json:"caption,omitempty"`
	DocumentId       string                 `json:"document_id,omitempty"`
	DocumentFilename string                 `json:"document_filename,omitempty"`
}
