package service

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mediatube/internal/storage"
)

// UploadedMedia referencia un objeto ya subido al almacén remoto.
type UploadedMedia struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MediaService sube archivos locales al almacén de objetos y limpia los
// temporales del disco.
type MediaService struct {
	logger *zap.Logger
	store  storage.ObjectStorage
}

func NewMediaService(logger *zap.Logger, store storage.ObjectStorage) *MediaService {
	return &MediaService{
		logger: logger,
		store:  store,
	}
}

// Upload envía el archivo local al almacén y devuelve su referencia.
// Con path vacío devuelve nil sin error. El temporal local se elimina
// siempre, sin importar el resultado de la subida.
func (s *MediaService) Upload(ctx context.Context, localPath string) (*UploadedMedia, error) {
	localPath = strings.TrimSpace(localPath)
	if localPath == "" {
		return nil, nil
	}
	defer s.removeLocal(localPath)

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open local file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat local file: %w", err)
	}

	ext := filepath.Ext(localPath)
	key := uuid.NewString() + ext
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.store.Put(ctx, key, file, info.Size(), contentType); err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	return &UploadedMedia{
		URL:      s.store.URL(key),
		PublicID: key,
	}, nil
}

// Remove borra un objeto remoto. Es una acción de limpieza: los errores
// se registran y nunca se propagan.
func (s *MediaService) Remove(ctx context.Context, publicID string) {
	if strings.TrimSpace(publicID) == "" {
		return
	}
	if err := s.store.Delete(ctx, publicID); err != nil {
		s.logger.Warn("delete remote media failed", zap.String("public_id", publicID), zap.Error(err))
	}
}

func (s *MediaService) removeLocal(localPath string) {
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("delete local temp file failed", zap.String("path", localPath), zap.Error(err))
	}
}
