package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/ocr"
	"studysync/backend/internal/qr"
)

// UploadsURLPrefix is where the uploads directory is served.
const UploadsURLPrefix = "/uploads"

var convertFormats = map[string]struct{}{
	"pdf": {}, "docx": {}, "txt": {}, "html": {}, "md": {}, "png": {}, "jpg": {},
}

// FileService stores uploads and runs the document tools on them.
type FileService struct {
	dir      string
	maxBytes int64
	scanner  ocr.Scanner
	logger   logging.Logger
	now      func() time.Time
}

type UploadedFile struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	Path         string `json:"path"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MIMEType     string `json:"mimetype"`
}

type ConvertedFile struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	OriginalFile  string `json:"originalFile"`
	ConvertedFile string `json:"convertedFile"`
	OutputFormat  string `json:"outputFormat"`
	DownloadURL   string `json:"downloadUrl"`
}

type ScannedDocument struct {
	Success       bool   `json:"success"`
	Filename      string `json:"filename"`
	OriginalName  string `json:"originalName"`
	ExtractedText string `json:"extractedText"`
	URL           string `json:"url"`
}

type FileEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Size         int64     `json:"size"`
	MIMEType     string    `json:"mimeType"`
	DateModified time.Time `json:"dateModified"`
	Path         string    `json:"path"`
}

type QRCode struct {
	Success bool   `json:"success"`
	QRCode  string `json:"qrCode"`
	Text    string `json:"text"`
}

func NewFileService(dir string, maxBytes int64, scanner ocr.Scanner, logger logging.Logger) *FileService {
	return &FileService{
		dir:      dir,
		maxBytes: maxBytes,
		scanner:  scanner,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *FileService) Dir() string {
	return s.dir
}

func (s *FileService) Upload(header *multipart.FileHeader) (*UploadedFile, *apperrors.APIError) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	path, size, apiErr := s.store(header, name)
	if apiErr != nil {
		return nil, apiErr
	}

	return &UploadedFile{
		Success:      true,
		Message:      "file uploaded successfully",
		Filename:     name,
		OriginalName: header.Filename,
		Path:         path,
		URL:          fileURL(name),
		Size:         size,
		MIMEType:     detectMIME(path),
	}, nil
}

// Convert stores a copy of the upload under the requested extension.
func (s *FileService) Convert(header *multipart.FileHeader, format string) (*ConvertedFile, *apperrors.APIError) {
	format = strings.ToLower(strings.TrimSpace(format))
	if _, ok := convertFormats[format]; !ok {
		return nil, apperrors.Validation(map[string]string{
			"outputFormat": "outputFormat must be one of pdf, docx, txt, html, md, png, jpg",
		})
	}

	name := fmt.Sprintf("converted_%d.%s", s.now().UnixMilli(), format)
	if _, _, apiErr := s.store(header, name); apiErr != nil {
		return nil, apiErr
	}

	return &ConvertedFile{
		Success:       true,
		Message:       "document converted successfully",
		OriginalFile:  header.Filename,
		ConvertedFile: name,
		OutputFormat:  format,
		DownloadURL:   "/api/download/" + name,
	}, nil
}

func (s *FileService) Scan(ctx context.Context, header *multipart.FileHeader) (*ScannedDocument, *apperrors.APIError) {
	name := "scanned_" + filepath.Base(header.Filename)
	path, _, apiErr := s.store(header, name)
	if apiErr != nil {
		return nil, apiErr
	}

	text, err := s.scanner.Scan(ctx, path)
	if err != nil {
		s.logger.Error("scan document", name, err)
		if errors.Is(err, ocr.ErrNoText) {
			return nil, apperrors.Unavailable("ocr_failed", "no text could be read from the image")
		}
		return nil, apperrors.Unavailable("ocr_failed", "could not scan the document, please try again")
	}

	return &ScannedDocument{
		Success:       true,
		Filename:      name,
		OriginalName:  header.Filename,
		ExtractedText: text,
		URL:           fileURL(name),
	}, nil
}

// SaveGenerated writes generated bytes such as an AI image to the uploads
// directory.
func (s *FileService) SaveGenerated(data []byte, prefix, ext string) (*UploadedFile, *apperrors.APIError) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, internalError(s.logger, "prepare uploads dir", err)
	}

	name := fmt.Sprintf("%s_%d%s", prefix, s.now().UnixMilli(), ext)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, internalError(s.logger, "save generated file", err)
	}

	return &UploadedFile{
		Success:      true,
		Message:      "file generated successfully",
		Filename:     name,
		OriginalName: name,
		Path:         path,
		URL:          fileURL(name),
		Size:         int64(len(data)),
		MIMEType:     detectMIME(path),
	}, nil
}

// List returns the uploads directory, newest first.
func (s *FileService) List() ([]FileEntry, *apperrors.APIError) {
	dirEntries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []FileEntry{}, nil
	}
	if err != nil {
		return nil, internalError(s.logger, "list files", err)
	}

	entries := make([]FileEntry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		entry := FileEntry{
			ID:           dirEntry.Name(),
			Name:         dirEntry.Name(),
			Type:         "file",
			Size:         info.Size(),
			DateModified: info.ModTime().UTC(),
			Path:         fileURL(dirEntry.Name()),
		}
		if dirEntry.IsDir() {
			entry.Type = "folder"
			entry.Size = 0
		} else {
			entry.MIMEType = detectMIME(filepath.Join(s.dir, dirEntry.Name()))
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DateModified.After(entries[j].DateModified)
	})
	return entries, nil
}

// Resolve maps a download name onto a file inside the uploads directory.
func (s *FileService) Resolve(name string) (string, *apperrors.APIError) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", apperrors.BadRequest("invalid_filename", "invalid file name")
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", apperrors.NotFound("file_not_found", "file not found")
	}
	return path, nil
}

func (s *FileService) QRCode(payload qr.Payload) (*QRCode, *apperrors.APIError) {
	content, err := payload.Content()
	if err != nil {
		return nil, apperrors.BadRequest("invalid_qr_payload", err.Error())
	}

	dataURL, err := qr.DataURL(content)
	if err != nil {
		return nil, internalError(s.logger, "generate qr code", err)
	}
	return &QRCode{Success: true, QRCode: dataURL, Text: content}, nil
}

func (s *FileService) store(header *multipart.FileHeader, name string) (string, int64, *apperrors.APIError) {
	if header.Size > s.maxBytes {
		return "", 0, apperrors.BadRequest("file_too_large",
			fmt.Sprintf("file exceeds the %d MB limit", s.maxBytes>>20))
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", 0, internalError(s.logger, "prepare uploads dir", err)
	}

	src, err := header.Open()
	if err != nil {
		return "", 0, apperrors.BadRequest("invalid_file", "could not read the uploaded file")
	}
	defer src.Close()

	path := filepath.Join(s.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", 0, internalError(s.logger, "store file", err)
	}

	size, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, internalError(s.logger, "store file", err)
	}
	if size > s.maxBytes {
		_ = os.Remove(path)
		return "", 0, apperrors.BadRequest("file_too_large",
			fmt.Sprintf("file exceeds the %d MB limit", s.maxBytes>>20))
	}
	return path, size, nil
}

func detectMIME(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return mtype.String()
}

func fileURL(name string) string {
	return UploadsURLPrefix + "/" + name
}
