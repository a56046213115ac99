package handler

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/storage"
)

// Upload limits for document evidence files.
const (
	maxDocumentFiles = 5
	maxDocumentBytes = 10 << 20 // 10 MiB per file
)

var docContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

var errBadUpload = errors.New("bad upload")

// validateDocumentFiles enforces the count, size and format rules shared
// by both document submission flows. Returns the content type per file.
func validateDocumentFiles(files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one document is required", errBadUpload)
	}
	if len(files) > maxDocumentFiles {
		return nil, fmt.Errorf("%w: at most %d documents per submission", errBadUpload, maxDocumentFiles)
	}
	types := make([]string, len(files))
	for i, fh := range files {
		if fh.Size > maxDocumentBytes {
			return nil, fmt.Errorf("%w: %s exceeds the 10MB size limit", errBadUpload, fh.Filename)
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		ct, ok := docContentTypes[ext]
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a jpeg, png or pdf file", errBadUpload, fh.Filename)
		}
		types[i] = ct
	}
	return types, nil
}

// storeDocumentFiles uploads every file and returns the document rows to
// persist. On any failure the files already stored are deleted so the
// bucket holds no orphans.
func storeDocumentFiles(store *storage.DocumentStore, files []*multipart.FileHeader, docTypes []string) ([]model.DocumentFile, error) {
	contentTypes, err := validateDocumentFiles(files)
	if err != nil {
		return nil, err
	}
	docs := make([]model.DocumentFile, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			cleanupDocuments(store, docs)
			return nil, err
		}
		stored, err := store.Store(f, fh.Filename, contentTypes[i])
		_ = f.Close()
		if err != nil {
			cleanupDocuments(store, docs)
			return nil, err
		}
		docs = append(docs, model.DocumentFile{
			DocumentType: docTypes[i],
			URL:          stored.URL,
			StorageKey:   stored.Key,
			OriginalName: fh.Filename,
			FileSize:     fh.Size,
			UploadedAt:   time.Now().UTC(),
		})
	}
	return docs, nil
}

// cleanupDocuments removes stored files after a failed submission.
// Best-effort: a missed delete leaves an orphan in the bucket, not an
// inconsistent review record.
func cleanupDocuments(store *storage.DocumentStore, docs []model.DocumentFile) {
	for _, d := range docs {
		if err := store.Delete(d.StorageKey); err != nil {
			log.Printf("document cleanup: delete %s failed: %v", d.StorageKey, err)
		}
	}
}

// inferIdentityDocType guesses the identity document type from the
// uploaded filename, falling back to a generic government id.
func inferIdentityDocType(filename string) string {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "aadhaar") || strings.Contains(name, "aadhar"):
		return model.DocAadhaar
	case strings.Contains(name, "pan"):
		return model.DocPAN
	case strings.Contains(name, "driving") || strings.Contains(name, "licence") || strings.Contains(name, "license"):
		return model.DocDrivingLicense
	case strings.Contains(name, "passport"):
		return model.DocPassport
	case strings.Contains(name, "voter"):
		return model.DocVoterID
	default:
		return model.DocGovernmentID
	}
}
