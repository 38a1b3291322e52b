// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mentorae/tutor-tui/internal/api"
)

// Upload transcript notices.
const (
	noticeRAGReady    = "RAG initialized successfully! You can now ask questions about the uploaded documents."
	noticeRAGFailed   = "Failed to initialize RAG. Falling back to standard response generation."
	noticeImagePrompt = "You can now ask me specific questions about this image. " +
		"Type your question below and press enter."
)

// ocrFailureMarkers identify extracted_text payloads that are backend
// error strings rather than actual OCR output.
var ocrFailureMarkers = []string{
	"OCR failed",
	"tesseract is not installed",
}

// Uploader is the slice of the API client the upload controller uses.
// *api.Client satisfies it.
type Uploader interface {
	InitializeRAG(ctx context.Context, files []api.UploadFile) (*api.RAGResponse, error)
	InitializeRAGFolder(ctx context.Context, folder string) (*api.RAGResponse, error)
	ProcessImage(ctx context.Context, filename string, image []byte, query string) (*api.ProcessImageResponse, error)
}

// UploadController feeds documents and images to the backend and updates
// the conversation's RAG and image-context state with the results.
type UploadController struct {
	api      Uploader
	conv     *Controller
	renderer Renderer
}

// NewUploadController creates an upload controller bound to the
// conversation it reports into.
func NewUploadController(uploader Uploader, conv *Controller) *UploadController {
	return &UploadController{api: uploader, conv: conv, renderer: conv.renderer}
}

// maxUploadBytes returns the configured per-file size cap.
func (u *UploadController) maxUploadBytes() int64 {
	u.conv.mu.Lock()
	defer u.conv.mu.Unlock()
	return int64(u.conv.cfg.Upload.MaxFileMB) << 20
}

// UploadFiles reads the named documents and asks the backend to build a
// RAG index over them. An empty path list is a no-op.
func (u *UploadController) UploadFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	limit := u.maxUploadBytes()
	files := make([]api.UploadFile, 0, len(paths))
	names := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			u.renderer.Notice(fmt.Sprintf("Cannot read %s: %v", path, err))
			return err
		}
		if info.Size() > limit {
			err := fmt.Errorf("%s exceeds the %d MB upload limit", filepath.Base(path), limit>>20)
			u.renderer.Notice(err.Error())
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			u.renderer.Notice(fmt.Sprintf("Cannot read %s: %v", path, err))
			return err
		}
		files = append(files, api.UploadFile{Name: filepath.Base(path), Data: data})
		names = append(names, filepath.Base(path))
	}

	u.renderer.Notice("Loading documents: " + strings.Join(names, ", "))
	u.renderer.Notice("Initializing RAG system with documents...")

	resp, err := u.api.InitializeRAG(ctx, files)
	if err != nil {
		log.Printf("tutor: rag init failed: %v", err)
		u.conv.setRAGReady(false)
		u.renderer.Notice(noticeRAGFailed)
		return err
	}
	if !resp.Success {
		u.conv.setRAGReady(false)
		u.renderer.Notice(noticeRAGFailed)
		return nil
	}

	u.conv.setRAGReady(true)
	u.renderer.Notice(noticeRAGReady)
	return nil
}

// UploadFolder asks the backend to index a server-visible folder by
// name. An empty folder name is a no-op.
func (u *UploadController) UploadFolder(ctx context.Context, folder string) error {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return nil
	}
	folder = filepath.Base(folder)

	u.renderer.Notice("Loading documents from folder: " + folder)
	u.renderer.Notice("Initializing RAG system with folder documents...")

	resp, err := u.api.InitializeRAGFolder(ctx, folder)
	if err != nil {
		log.Printf("tutor: rag folder init failed: %v", err)
		u.conv.setRAGReady(false)
		u.renderer.Notice(noticeRAGFailed)
		return err
	}
	if !resp.Success {
		u.conv.setRAGReady(false)
		u.renderer.Notice(noticeRAGFailed)
		return nil
	}

	u.conv.setRAGReady(true)
	u.renderer.Notice(noticeRAGReady)
	return nil
}

// UploadImage sends an image for analysis and, on success, installs it
// as the conversation's image context. query optionally carries the
// user's current input along as analysis context.
func (u *UploadController) UploadImage(ctx context.Context, path, query string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		u.renderer.Notice(fmt.Sprintf("Cannot read %s: %v", path, err))
		return err
	}
	if limit := u.maxUploadBytes(); info.Size() > limit {
		err := fmt.Errorf("%s exceeds the %d MB upload limit", filepath.Base(path), limit>>20)
		u.renderer.Notice(err.Error())
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		u.renderer.Notice(fmt.Sprintf("Cannot read %s: %v", path, err))
		return err
	}

	name := filepath.Base(path)
	u.renderer.Notice("Processing image: " + name)
	u.renderer.Notice("Analyzing image content...")

	resp, err := u.api.ProcessImage(ctx, name, data, strings.TrimSpace(query))
	if err != nil {
		log.Printf("tutor: image processing failed: %v", err)
		u.renderer.Notice("Error processing image. Please try again.")
		return err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Failed to process image"
		}
		u.renderer.Notice(msg)
		return nil
	}

	u.renderer.AppendReply(resp.Analysis)

	if text := resp.ExtractedText(); text != "" && !isOCRFailure(text) {
		u.renderer.AppendReply(fmt.Sprintf("Extracted text from image: %q", text))
	}

	u.renderer.AppendReply(noticeImagePrompt)
	u.conv.setImageContext(resp.ImageData, resp.Analysis)
	return nil
}

// isOCRFailure reports whether extracted text is one of the backend's
// OCR error strings.
func isOCRFailure(text string) bool {
	for _, marker := range ocrFailureMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
