package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"docchat-client/internal/entity"
	"docchat-client/internal/mapper"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/state"
	"docchat-client/pkg/backend"
)

type IDocumentService interface {
	Refresh(ctx context.Context) ([]entity.Document, error)
	Documents() []entity.Document
	Get(ctx context.Context, documentId string) (*entity.Document, error)
	// Upload returns nil on any failure and leaves the list unchanged; the
	// reason is recorded as an upload error in the state.
	Upload(ctx context.Context, filename string, content io.Reader) *entity.Document
	Delete(ctx context.Context, documentId string) error
	Process(ctx context.Context, documentId string) (*entity.Document, error)
}

type documentService struct {
	api    backend.API
	store  *state.Store
	mapper *mapper.BackendMapper
	logger logger.ILogger
}

func NewDocumentService(api backend.API, store *state.Store, log logger.ILogger) IDocumentService {
	return &documentService{
		api:    api,
		store:  store,
		mapper: mapper.NewBackendMapper(),
		logger: log,
	}
}

func (ds *documentService) Refresh(ctx context.Context) ([]entity.Document, error) {
	resp, err := ds.api.ListDocuments(ctx)
	if err != nil {
		reportFailure(ds.store, ds.logger, "documents.refresh", entity.ErrorNetwork, err)
		return ds.Documents(), fmt.Errorf("list documents: %w", err)
	}
	docs := ds.mapper.DocumentsToEntities(resp)

	snap, err := ds.store.Apply("documents.refresh", func(s *state.Snapshot) error {
		known := make(map[string]bool, len(docs))
		for _, d := range docs {
			known[d.Id] = true
		}
		var gone []string
		for _, d := range s.Documents {
			if !known[d.Id] {
				gone = append(gone, d.Id)
			}
		}
		for _, id := range gone {
			s.RemoveDocument(id)
		}
		s.Documents = docs
		return nil
	})
	return snap.Documents, err
}

func (ds *documentService) Documents() []entity.Document {
	return ds.store.Snapshot().Documents
}

func (ds *documentService) Get(ctx context.Context, documentId string) (*entity.Document, error) {
	resp, err := ds.api.GetDocument(ctx, documentId)
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document %s: %w", documentId, err)
	}
	doc := ds.mapper.DocumentToEntity(resp)

	_, _ = ds.store.Apply("documents.get", func(s *state.Snapshot) error {
		if _, ok := s.Document(doc.Id); !ok {
			return errMiss
		}
		s.PutDocument(*doc)
		return nil
	})
	return doc, nil
}

func (ds *documentService) Upload(ctx context.Context, filename string, content io.Reader) *entity.Document {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		reportFailure(ds.store, ds.logger, "documents.upload", entity.ErrorUpload, fmt.Errorf("%w: %s", entity.ErrUnsupportedFile, filename))
		return nil
	}

	resp, err := ds.api.UploadDocument(ctx, filepath.Base(filename), content)
	if err != nil {
		reportFailure(ds.store, ds.logger, "documents.upload", entity.ErrorUpload, err)
		return nil
	}
	doc := ds.mapper.DocumentToEntity(resp)

	// Identical content comes back as the existing document.
	_, _ = ds.store.Apply("documents.upload", func(s *state.Snapshot) error {
		s.PutDocument(*doc)
		s.ClearError()
		return nil
	})

	ds.logger.Info("DocumentService", "Document uploaded", map[string]interface{}{"document_id": doc.Id, "filename": doc.DisplayName()})
	return doc
}

func (ds *documentService) Delete(ctx context.Context, documentId string) error {
	if err := ds.api.DeleteDocument(ctx, documentId); err != nil && !backend.IsNotFound(err) {
		reportFailure(ds.store, ds.logger, "documents.delete", entity.ErrorNetwork, err)
		return fmt.Errorf("delete document %s: %w", documentId, err)
	}

	_, err := ds.store.Apply("documents.delete", func(s *state.Snapshot) error {
		if !s.RemoveDocument(documentId) {
			return entity.ErrDocumentNotFound
		}
		return nil
	})
	return err
}

func (ds *documentService) Process(ctx context.Context, documentId string) (*entity.Document, error) {
	resp, err := ds.api.ProcessDocument(ctx, documentId)
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, entity.ErrDocumentNotFound
		}
		reportFailure(ds.store, ds.logger, "documents.process", entity.ErrorNetwork, err)
		return nil, fmt.Errorf("process document %s: %w", documentId, err)
	}
	doc := ds.mapper.DocumentToEntity(resp)

	_, err = ds.store.Apply("documents.process", func(s *state.Snapshot) error {
		s.PutDocument(*doc)
		return nil
	})
	return doc, err
}
