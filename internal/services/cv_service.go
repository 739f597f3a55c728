package services

import (
	"bytes"
	"context"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mockmate/backend/internal/cache"
	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/providers/llm"
	pgrepo "github.com/mockmate/backend/internal/repositories/postgres"
	"github.com/mockmate/backend/internal/storage"
	"github.com/mockmate/backend/internal/utils"
)

const cvProfileKeyPrefix = "cv:"

// CVProfileStore holds extracted CV profiles behind short-lived opaque tokens.
// A token that has expired behaves exactly like one that never existed.
type CVProfileStore interface {
	Save(ctx context.Context, profile *models.CVProfile) (token string, err error)
	Find(ctx context.Context, token string) (*models.CVProfile, bool, error)
}

type cvProfileStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCVProfileStore(c cache.Cache, ttl time.Duration) CVProfileStore {
	return &cvProfileStore{cache: c, ttl: ttl}
}

func (s *cvProfileStore) Save(ctx context.Context, profile *models.CVProfile) (string, error) {
	token := uuid.NewString()
	if err := s.cache.SetJSON(ctx, cvProfileKeyPrefix+token, profile, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

func (s *cvProfileStore) Find(ctx context.Context, token string) (*models.CVProfile, bool, error) {
	var p models.CVProfile
	hit, err := s.cache.GetJSON(ctx, cvProfileKeyPrefix+token, &p)
	if err != nil || !hit {
		return nil, false, err
	}
	return &p, true, nil
}

// CVUpload is what the upload endpoint returns: the session token plus the
// extracted profile so the client can show it for confirmation.
type CVUpload struct {
	Token   string            `json:"cv_session_token"`
	Profile *models.CVProfile `json:"cv_profile"`
}

type CVService interface {
	Ingest(ctx context.Context, fileName string, data []byte) (*CVUpload, error)
}

type cvService struct {
	provider llm.Provider
	profiles CVProfileStore
	files    pgrepo.CVFileRepository
	uploader storage.Uploader
	log      *logrus.Logger
}

// NewCVService wires the upload pipeline. files and uploader may both be nil,
// in which case uploads are not archived.
func NewCVService(provider llm.Provider, profiles CVProfileStore, files pgrepo.CVFileRepository, uploader storage.Uploader, log *logrus.Logger) CVService {
	return &cvService{provider: provider, profiles: profiles, files: files, uploader: uploader, log: log}
}

var allowedCVExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
}

func (s *cvService) Ingest(ctx context.Context, fileName string, data []byte) (*CVUpload, error) {
	const op = "CVService.Ingest"

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedCVExtensions[ext] {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported file type (want .pdf, .docx, .doc or .txt)", nil)
	}
	if len(data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "empty file", nil)
	}

	raw, err := ExtractRawText(fileName, data)
	if err != nil {
		return nil, utils.E(utils.CodeExtractionFailed, op, "failed to read text from file", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, utils.E(utils.CodeExtractionFailed, op, "file contains no readable text", nil)
	}

	profile, err := s.provider.ExtractProfile(ctx, raw)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "CV extraction failed", err)
	}

	token, err := s.profiles.Save(ctx, profile)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store CV profile", err)
	}

	// Archival is best effort; a dead bucket must not block the interview flow.
	if s.uploader != nil && s.files != nil {
		s.archive(ctx, fileName, ext, data)
	}

	return &CVUpload{Token: token, Profile: profile}, nil
}

func (s *cvService) archive(ctx context.Context, fileName, ext string, data []byte) {
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := uuid.NewString()
	objectName := "cv/" + id + ext

	storedPath, err := s.uploader.Upload(ctx, objectName, contentType, bytes.NewReader(data))
	if err != nil {
		s.log.WithError(err).WithField("file_name", fileName).Warn("failed to archive CV upload")
		return
	}

	row := &models.CVFile{
		ID:         id,
		FileName:   fileName,
		ObjectPath: storedPath,
		FileSize:   len(data),
		MimeType:   contentType,
		UploadAt:   time.Now().UTC(),
	}
	if err := s.files.Insert(ctx, row); err != nil {
		s.log.WithError(err).WithField("file_name", fileName).Warn("failed to record CV archive row")
	}
}
