// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor drives the conversation with the tutor backend.
//
// # Key Types
//
// Controller routes each question through one of three flows, in
// priority order: image-grounded ask (when an uploaded image is the
// active context), web-search-augmented ask (search enabled and no
// document index loaded), or direct ask. Search failures and timeouts
// fall back to the direct flow with a notice. Supporting panels (web
// sources, scraped references) land on a short delay after the reply.
//
// UploadController feeds documents to /initialize-rag and images to
// /process-image, flipping the conversation's RAG flag and image
// context on success.
//
// VoiceController owns speech capture (one at a time, toggle to cancel)
// and the bounded stop-speech retry.
//
// Renderer is the transcript surface all three draw on. The chat TUI
// and the plain CLI printer implement it; tests use a recording fake.
package tutor
