package mapper

import (
	"docchat-client/internal/dto"
	"docchat-client/internal/entity"
)

type BackendMapper struct{}

func NewBackendMapper() *BackendMapper {
	return &BackendMapper{}
}

// Document Mappers

func (m *BackendMapper) DocumentToEntity(d *dto.DocumentResponse) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:               d.Id,
		Filename:         d.Filename,
		OriginalFilename: d.OriginalFilename,
		Size:             d.FileSize,
		PageCount:        d.PageCount,
		Processed:        d.Processed,
		UploadDate:       d.UploadDate,
	}
}

func (m *BackendMapper) DocumentsToEntities(docs []dto.DocumentResponse) []entity.Document {
	out := make([]entity.Document, 0, len(docs))
	for i := range docs {
		out = append(out, *m.DocumentToEntity(&docs[i]))
	}
	return out
}

// Session Mappers

func (m *BackendMapper) SessionToEntity(s *dto.SessionResponse) *entity.ChatSession {
	if s == nil {
		return nil
	}

	title := ""
	if s.Title != nil {
		title = *s.Title
	}

	attached := make([]entity.DocumentBrief, 0, len(s.AttachedDocuments))
	for _, d := range s.AttachedDocuments {
		attached = append(attached, entity.DocumentBrief{
			Id:               d.Id,
			OriginalFilename: d.OriginalFilename,
			Size:             d.FileSize,
			PageCount:        d.PageCount,
		})
	}

	return &entity.ChatSession{
		Id:                s.Id,
		Title:             title,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		AttachedDocuments: attached,
	}
}

func (m *BackendMapper) SessionsToEntities(sessions []dto.SessionResponse) []entity.ChatSession {
	out := make([]entity.ChatSession, 0, len(sessions))
	for i := range sessions {
		out = append(out, *m.SessionToEntity(&sessions[i]))
	}
	return out
}

// Message Mappers

func (m *BackendMapper) MessageToEntity(msg *dto.MessageResponse) entity.ChatMessage {
	citations := msg.Citations
	if citations == nil {
		citations = []string{}
	}
	return entity.ChatMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      entity.MessageRole(msg.Role),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
		Citations: citations,
	}
}

func (m *BackendMapper) MessagesToEntities(msgs []dto.MessageResponse) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, m.MessageToEntity(&msgs[i]))
	}
	return out
}

// Source Mappers

func (m *BackendMapper) SourceToEntity(s *dto.SourceChunkResponse) entity.SourceChunk {
	mediaType := entity.MediaType(s.MediaType)
	if mediaType == "" {
		mediaType = entity.MediaText
	}
	return entity.SourceChunk{
		ChunkId:      s.ChunkId,
		Content:      s.Content,
		Similarity:   s.Similarity,
		DocumentId:   s.DocumentId,
		DocumentName: s.DocumentName,
		PageNumber:   s.PageNumber,
		MediaType:    mediaType,
		ImageUrl:     deref(s.ImageUrl),
		Caption:      deref(s.Caption),
	}
}

func (m *BackendMapper) SourcesToEntities(sources []dto.SourceChunkResponse) []entity.SourceChunk {
	out := make([]entity.SourceChunk, 0, len(sources))
	for i := range sources {
		out = append(out, m.SourceToEntity(&sources[i]))
	}
	return out
}

func (m *BackendMapper) ChunkDetailToEntity(c *dto.ChunkDetailResponse) *entity.ChunkDetail {
	if c == nil {
		return nil
	}
	detail := &entity.ChunkDetail{
		ChunkId:    c.ChunkId,
		Content:    c.Content,
		MediaType:  entity.MediaType(c.MediaType),
		PageNumber: c.PageNumber,
		Bbox:       c.Bbox,
		ImageUrl:   deref(c.ImageUrl),
		Caption:    deref(c.Caption),
	}
	if c.Document != nil {
		detail.DocumentId = c.Document.Id
		detail.DocumentFilename = c.Document.Filename
	}
	return detail
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
