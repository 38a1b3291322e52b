// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorae/tutor-tui/internal/api"
)

// fakeVoice scripts the speech endpoints.
type fakeVoice struct {
	sttCalls  int
	stopCalls int
	haltCalls int

	sttFn  func() (*api.SpeechToTextResponse, error)
	haltFn func(attempt int) (*api.StopResponse, error)
}

func (f *fakeVoice) SpeechToText(ctx context.Context) (*api.SpeechToTextResponse, error) {
	f.sttCalls++
	if f.sttFn != nil {
		return f.sttFn()
	}
	return &api.SpeechToTextResponse{Query: "what is gravity"}, nil
}

func (f *fakeVoice) StopListening(ctx context.Context) error {
	f.stopCalls++
	return nil
}

func (f *fakeVoice) StopSpeech(ctx context.Context) (*api.StopResponse, error) {
	f.haltCalls++
	if f.haltFn != nil {
		return f.haltFn(f.haltCalls)
	}
	return &api.StopResponse{Success: true}, nil
}

func newTestVoice(f *fakeVoice, b *fakeBackend) (*VoiceController, *fakeRenderer) {
	conv, r := newTestController(b, nil)
	v := NewVoiceController(f, conv)
	v.sleep = func(ctx context.Context, d time.Duration) {}
	return v, r
}

func TestToggle_CaptureSendsQuestion(t *testing.T) {
	f := &fakeVoice{}
	b := &fakeBackend{}
	v, r := newTestVoice(f, b)

	if err := v.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle returned %v", err)
	}
	if f.sttCalls != 1 {
		t.Fatalf("sttCalls = %d", f.sttCalls)
	}
	if !r.has("notice", "Listening...") {
		t.Error("expected listening notice")
	}
	if !r.has("user", "what is gravity") {
		t.Errorf("recognized text must be sent as a question, got %v", r.events)
	}
	if v.Listening() {
		t.Error("capture must end after recognition")
	}
}

func TestToggle_EmptyRecognitionIgnored(t *testing.T) {
	f := &fakeVoice{
		sttFn: func() (*api.SpeechToTextResponse, error) {
			return &api.SpeechToTextResponse{Query: "   "}, nil
		},
	}
	b := &fakeBackend{}
	v, _ := newTestVoice(f, b)

	if err := v.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle returned %v", err)
	}
	if b.askCalls+b.searchCalls != 0 {
		t.Error("blank recognition must not become a question")
	}
}

func TestToggle_CancelWhileListening(t *testing.T) {
	captureStarted := make(chan struct{})
	release := make(chan struct{})
	f := &fakeVoice{}
	f.sttFn = func() (*api.SpeechToTextResponse, error) {
		close(captureStarted)
		<-release
		return &api.SpeechToTextResponse{Query: "too late"}, nil
	}
	b := &fakeBackend{}
	v, _ := newTestVoice(f, b)

	done := make(chan error, 1)
	go func() { done <- v.Toggle(context.Background()) }()
	<-captureStarted

	// Second toggle cancels the capture in progress.
	if err := v.Toggle(context.Background()); err != nil {
		t.Fatalf("cancel Toggle returned %v", err)
	}
	if f.stopCalls != 1 {
		t.Errorf("stopCalls = %d, cancel must hit /stop-listening", f.stopCalls)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("capture Toggle returned %v", err)
	}
	if b.askCalls+b.searchCalls != 0 {
		t.Error("cancelled capture must discard the recognized text")
	}
	if v.Listening() {
		t.Error("listening flag must be down after cancel")
	}
}

func TestStopSpeech_RetriesUntilSuccess(t *testing.T) {
	f := &fakeVoice{
		haltFn: func(attempt int) (*api.StopResponse, error) {
			if attempt < 2 {
				return &api.StopResponse{Success: false}, nil
			}
			return &api.StopResponse{Success: true}, nil
		},
	}
	v, _ := newTestVoice(f, &fakeBackend{})

	if err := v.StopSpeech(context.Background()); err != nil {
		t.Fatalf("StopSpeech returned %v", err)
	}
	if f.haltCalls != 2 {
		t.Errorf("haltCalls = %d, want success on second attempt", f.haltCalls)
	}
}

func TestStopSpeech_Exhausted(t *testing.T) {
	f := &fakeVoice{
		haltFn: func(attempt int) (*api.StopResponse, error) {
			return nil, errors.New("playback busy")
		},
	}
	v, _ := newTestVoice(f, &fakeBackend{})

	err := v.StopSpeech(context.Background())
	if !errors.Is(err, ErrStopSpeechFailed) {
		t.Fatalf("err = %v, want ErrStopSpeechFailed", err)
	}
	if f.haltCalls != stopSpeechAttempts {
		t.Errorf("haltCalls = %d, want %d", f.haltCalls, stopSpeechAttempts)
	}
}

func TestStopSpeech_CancelledContext(t *testing.T) {
	f := &fakeVoice{
		haltFn: func(attempt int) (*api.StopResponse, error) {
			return &api.StopResponse{Success: false}, nil
		},
	}
	v, _ := newTestVoice(f, &fakeBackend{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.StopSpeech(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
