// Package services – FileService
//
// This file implements file download and upload. Downloads serve a single
// configured demo document. Uploads accept PDF documents only, up to a size
// cap, and are stored under a server-generated name; the client-supplied
// file name is never used.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxUploadBytes is the default upload cap (20 MiB).
const MaxUploadBytes int64 = 20 << 20

const pdfContentType = "application/pdf"

// FileStore persists uploaded documents.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
}

// File is a downloadable document.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileService implements the files endpoints.
type FileService struct {
	DemoPath string
	Store    FileStore
	MaxBytes int64
}

// NewFileService wires a FileService. A non-positive maxBytes selects
// MaxUploadBytes.
func NewFileService(demoPath string, store FileStore, maxBytes int64) *FileService {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	return &FileService{DemoPath: demoPath, Store: store, MaxBytes: maxBytes}
}

// Get returns the demo document regardless of fileID. The content type is
// derived from the file extension.
func (s *FileService) Get(ctx context.Context, fileID string) (*File, error) {
	_, span := otel.Tracer("services/FileService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("file.id", fileID)))
	defer span.End()

	data, err := os.ReadFile(s.DemoPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	ct := mime.TypeByExtension(filepath.Ext(s.DemoPath))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &File{Name: filepath.Base(s.DemoPath), ContentType: ct, Data: data}, nil
}

// Upload stores a PDF and returns its generated name. It rejects empty files,
// files above MaxBytes, a declared content type other than application/pdf,
// and content that does not sniff as PDF.
func (s *FileService) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	ctx, span := otel.Tracer("services/FileService").Start(ctx, "Upload",
		trace.WithAttributes(
			attribute.Int64("file.size", size),
			attribute.String("file.content_type", contentType),
		),
	)
	defer span.End()

	if size <= 0 || size > s.MaxBytes {
		return "", ErrInvalidUpload
	}
	if mt, _, err := mime.ParseMediaType(contentType); err != nil || mt != pdfContentType {
		return "", ErrInvalidUpload
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]
	if !mimetype.Detect(head).Is(pdfContentType) {
		return "", ErrInvalidUpload
	}

	name := fmt.Sprintf("uploaded_file_%s.pdf", uuid.NewString())
	body := io.MultiReader(bytes.NewReader(head), r)
	if err := s.Store.Save(ctx, name, io.LimitReader(body, s.MaxBytes), size, pdfContentType); err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("file.name", name))
	return name, nil
}
