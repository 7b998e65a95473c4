package speech_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client is a client for the speech service (transcription and audio emotion).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// TranscribeResponse represents the transcription result
type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

// EmotionScore is a single label/score pair from the audio emotion model
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// EmotionResponse represents the audio emotion classification result
type EmotionResponse struct {
	Emotion []EmotionScore `json:"emotion"`
}

// NewClient creates a new speech service client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Transcribe uploads the audio file at audioPath and returns the transcribed text.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	body, contentType, err := fileUploadBody("audio", audioPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/transcribe", body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("speech service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result TranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Transcription, nil
}

// TranscribeReader uploads audio from a reader, for passthrough from file uploads.
func (c *Client) TranscribeReader(ctx context.Context, filename string, audio io.Reader) (string, error) {
	body, contentType, err := readerUploadBody("audio", filename, audio)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/transcribe", body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("speech service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result TranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Transcription, nil
}

// AnalyzeEmotion uploads audio and returns the emotion classification.
func (c *Client) AnalyzeEmotion(ctx context.Context, filename string, audio io.Reader) (*EmotionResponse, error) {
	body, contentType, err := readerUploadBody("audio", filename, audio)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/analyze_audio_emotion", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result EmotionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func fileUploadBody(field, path string) (*bytes.Buffer, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return readerUploadBody(field, filepath.Base(path), file)
}

func readerUploadBody(field, filename string, r io.Reader) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
