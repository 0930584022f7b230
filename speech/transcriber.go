package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AssemblyAI/assemblyai-go-sdk"
)

var (
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrNotConfigured       = errors.New("transcription provider not configured")
)

const transcribeTimeout = 2 * time.Minute

type Word struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Transcript is the provider result reduced to what the handlers use.
// Confidence is in [0,1].
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

// provider is the slice of the AssemblyAI API the transcriber depends on.
type provider interface {
	Upload(ctx context.Context, audio io.Reader) (string, error)
	Transcribe(ctx context.Context, audioURL string) (assemblyai.Transcript, error)
}

type sdkProvider struct {
	client *assemblyai.Client
}

func (p *sdkProvider) Upload(ctx context.Context, audio io.Reader) (string, error) {
	return p.client.Upload(ctx, audio)
}

func (p *sdkProvider) Transcribe(ctx context.Context, audioURL string) (assemblyai.Transcript, error) {
	return p.client.Transcripts.TranscribeFromURL(ctx, audioURL, &assemblyai.TranscriptOptionalParams{
		SpeakerLabels:     assemblyai.Bool(true),
		AutoHighlights:    assemblyai.Bool(true),
		SentimentAnalysis: assemblyai.Bool(true),
		EntityDetection:   assemblyai.Bool(true),
		Punctuate:         assemblyai.Bool(true),
		FormatText:        assemblyai.Bool(true),
	})
}

type Transcriber struct {
	provider provider
}

// NewTranscriber returns a Transcriber backed by AssemblyAI. An empty baseURL
// uses the SDK default.
func NewTranscriber(apiKey, baseURL string) (*Transcriber, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	opts := []assemblyai.ClientOption{
		assemblyai.WithAPIKey(apiKey),
		assemblyai.WithHTTPClient(&http.Client{Timeout: transcribeTimeout}),
	}
	if baseURL != "" {
		opts = append(opts, assemblyai.WithBaseURL(baseURL))
	}
	return &Transcriber{provider: &sdkProvider{client: assemblyai.NewClientWithOptions(opts...)}}, nil
}

// Transcribe uploads audio and waits for the transcript. Every failure,
// whether reported by the provider or by the transport, wraps
// ErrTranscriptionFailed.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (Transcript, error) {
	if t == nil || t.provider == nil {
		return Transcript{}, ErrNotConfigured
	}

	audioURL, err := t.provider.Upload(ctx, bytes.NewReader(audio))
	if err != nil {
		return Transcript{}, fmt.Errorf("%w: upload: %v", ErrTranscriptionFailed, err)
	}

	tr, err := t.provider.Transcribe(ctx, audioURL)
	if err != nil {
		return Transcript{}, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	if tr.Status == assemblyai.TranscriptStatusError {
		msg := deref(tr.Error)
		if msg == "" {
			msg = "provider reported an error"
		}
		return Transcript{}, fmt.Errorf("%w: %s", ErrTranscriptionFailed, msg)
	}

	out := Transcript{
		Text:       deref(tr.Text),
		Confidence: clampUnit(deref(tr.Confidence)),
	}
	for _, w := range tr.Words {
		out.Words = append(out.Words, Word{
			Text:       deref(w.Text),
			Start:      deref(w.Start),
			End:        deref(w.End),
			Confidence: deref(w.Confidence),
		})
	}
	return out, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
