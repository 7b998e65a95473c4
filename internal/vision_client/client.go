package vision_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrFaceNotDetected is returned when the face model finds no face in one
// or both of the submitted images.
var ErrFaceNotDetected = errors.New("face not detected in one or both images")

// Client is a client for the vision service (face matching and OCR).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// FaceVerifyResponse represents the face comparison result
type FaceVerifyResponse struct {
	Match    bool    `json:"match"`
	Distance float64 `json:"distance"`
	Error    string  `json:"error,omitempty"`
}

// OCRResponse represents the text extraction result
type OCRResponse struct {
	ExtractedText string `json:"extracted_text"`
	Error         string `json:"error,omitempty"`
}

// NewClient creates a new vision service client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// VerifyFace submits a selfie and an ID document photo and returns whether
// the encoded faces match.
func (c *Client) VerifyFace(ctx context.Context, faceName string, face io.Reader, idName string, id io.Reader) (*FaceVerifyResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	facePart, err := writer.CreateFormFile("face", faceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(facePart, face); err != nil {
		return nil, fmt.Errorf("failed to write face image: %w", err)
	}

	idPart, err := writer.CreateFormFile("id", idName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(idPart, id); err != nil {
		return nil, fmt.Errorf("failed to write id image: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/verify_face", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrFaceNotDetected
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result FaceVerifyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// ExtractText submits a document image and returns the OCR result.
func (c *Client) ExtractText(ctx context.Context, docName string, doc io.Reader) (*OCRResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("document", docName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, doc); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/ocr_document", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vision service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result OCRResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
