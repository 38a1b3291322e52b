// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mentorae/tutor-tui/internal/api"
)

// Stop-speech retry policy. Playback runs server-side, so a single stop
// request can race the synthesis loop; the bounded retry gives it three
// chances half a second apart.
const (
	stopSpeechAttempts = 3
	stopSpeechInterval = 500 * time.Millisecond
)

// ErrStopSpeechFailed indicates playback could not be halted after all
// attempts.
var ErrStopSpeechFailed = errors.New("failed to stop speech playback")

// VoiceBackend is the slice of the API client the voice controller uses.
// *api.Client satisfies it.
type VoiceBackend interface {
	SpeechToText(ctx context.Context) (*api.SpeechToTextResponse, error)
	StopListening(ctx context.Context) error
	StopSpeech(ctx context.Context) (*api.StopResponse, error)
}

// VoiceController owns speech capture state. At most one capture runs at
// a time; toggling while listening cancels the capture instead of
// starting another.
type VoiceController struct {
	api  VoiceBackend
	conv *Controller

	mu        sync.Mutex
	listening bool

	// sleep paces the stop-speech retries. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration)
}

// NewVoiceController creates a voice controller bound to the
// conversation recognized questions are sent into.
func NewVoiceController(backend VoiceBackend, conv *Controller) *VoiceController {
	return &VoiceController{
		api:  backend,
		conv: conv,
		sleep: func(ctx context.Context, d time.Duration) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
			case <-t.C:
			}
		},
	}
}

// Listening reports whether a speech capture is in progress.
func (v *VoiceController) Listening() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.listening
}

// Toggle starts a capture, or cancels the one in progress. A completed
// capture with non-empty text is sent into the conversation as a
// question.
func (v *VoiceController) Toggle(ctx context.Context) error {
	v.mu.Lock()
	if v.listening {
		v.listening = false
		v.mu.Unlock()
		if err := v.api.StopListening(ctx); err != nil {
			log.Printf("tutor: stop listening failed: %v", err)
			return err
		}
		return nil
	}
	v.listening = true
	v.mu.Unlock()

	v.conv.renderer.Notice("Listening...")

	result, err := v.api.SpeechToText(ctx)

	v.mu.Lock()
	wasCancelled := !v.listening
	v.listening = false
	v.mu.Unlock()

	if err != nil {
		log.Printf("tutor: speech recognition failed: %v", err)
		return err
	}
	if wasCancelled {
		return nil
	}

	if query := strings.TrimSpace(result.Query); query != "" {
		return v.conv.Send(ctx, query)
	}
	return nil
}

// StopSpeech halts server-side speech playback, retrying on a short
// interval before giving up.
func (v *VoiceController) StopSpeech(ctx context.Context) error {
	for attempt := 1; attempt <= stopSpeechAttempts; attempt++ {
		resp, err := v.api.StopSpeech(ctx)
		if err != nil {
			log.Printf("tutor: stop speech attempt %d failed: %v", attempt, err)
		} else if resp.Success {
			return nil
		}
		if attempt < stopSpeechAttempts {
			v.sleep(ctx, stopSpeechInterval)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
	return ErrStopSpeechFailed
}
