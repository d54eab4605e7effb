package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/animechat/anime-chatbot-backend/internal/audio"
)

const defaultTTSBaseURL = "https://api-inference.huggingface.co/models/nyanko7/vits-anime2"

// SynthesisResult is the raw output of a speech model: amplitude samples in
// [-1, 1] and the rate they were generated at. It is encoded to a container
// format right away and never persisted.
type SynthesisResult struct {
	Samples    []float32
	SampleRate int
}

// SpeechModel is the external text-to-speech model. No streaming: the whole
// utterance comes back in one response.
type SpeechModel interface {
	Synthesize(ctx context.Context, text string) (SynthesisResult, error)
}

// TTSConfig holds configuration for the hosted speech model.
type TTSConfig struct {
	APIKey  string
	BaseURL string
}

// HTTPSpeechModel calls a hosted inference endpoint that accepts
// {"inputs": …} and answers with amplitude samples plus a sampling rate.
type HTTPSpeechModel struct {
	config     TTSConfig
	httpClient *http.Client
}

func NewHTTPSpeechModel(cfg TTSConfig) *HTTPSpeechModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTTSBaseURL
	}
	return &HTTPSpeechModel{
		config:     cfg,
		httpClient: &http.Client{},
	}
}

type ttsRequest struct {
	Inputs string `json:"inputs"`
}

type ttsResponse struct {
	Audio        []float32 `json:"audio"`
	SamplingRate int       `json:"sampling_rate"`
}

func (m *HTTPSpeechModel) Synthesize(ctx context.Context, text string) (SynthesisResult, error) {
	body, err := json.Marshal(ttsRequest{Inputs: text})
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to encode tts request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to build tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return SynthesisResult{}, fmt.Errorf("tts endpoint returned %d: %s", resp.StatusCode, snippet)
	}

	var decoded ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to decode tts response: %w", err)
	}
	if len(decoded.Audio) == 0 || decoded.SamplingRate <= 0 {
		return SynthesisResult{}, fmt.Errorf("tts response contained no audio")
	}

	return SynthesisResult{Samples: decoded.Audio, SampleRate: decoded.SamplingRate}, nil
}

// TTSService turns text into a playable WAV byte stream via the speech model.
// Every call re-synthesizes from scratch; there is no caching and no input
// length cap.
type TTSService struct {
	model SpeechModel
}

func NewTTSService(model SpeechModel) *TTSService {
	return &TTSService{model: model}
}

func (s *TTSService) SynthesizeWAV(ctx context.Context, text string) ([]byte, error) {
	result, err := s.model.Synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	pcm := audio.SamplesToPCMBytes(result.Samples)
	wav, err := audio.PCMBytesToWavBytes(pcm, 1, result.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	return wav, nil
}
