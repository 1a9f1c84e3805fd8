package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/logging"
	"github.com/jonathan/jobswipe/internal/types"
)

const (
	// MaxFileSize is the largest resume accepted for upload
	MaxFileSize = 5 * 1024 * 1024
	// FormField is the multipart field carrying the file
	FormField = "resume"
	// DefaultServerURL is where the parsing service listens by default
	DefaultServerURL = "http://localhost:5000"
	// DefaultConfidence is reported when the service omits a confidence
	DefaultConfidence = 0.9
)

// SupportedExtensions are the file types accepted before upload.
// The bundled server only parses PDF.
var SupportedExtensions = []string{"pdf", "doc", "docx"}

// Client uploads resumes to the parsing service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClientLogger sets the logger for upload failures
func WithClientLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logging.Component(l, "resume-client")
	}
}

// NewClient creates a client for the service at baseURL. An empty baseURL uses DefaultServerURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateFile checks the extension and size of a resume before upload
func ValidateFile(fileName string, size int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	supported := false
	for _, s := range SupportedExtensions {
		if ext == s {
			supported = true
			break
		}
	}
	if !supported {
		return &FileError{FileName: fileName, Message: MsgUnsupportedFormat}
	}
	if size > MaxFileSize {
		return &FileError{FileName: fileName, Message: MsgFileTooLarge}
	}
	return nil
}

// ParseFile reads a resume from disk and parses it. It never returns an error;
// failures are reported through the result.
func (c *Client) ParseFile(ctx context.Context, path string) types.ResumeParsingResult {
	info, err := os.Stat(path)
	if err != nil {
		c.logger.Warn("cannot stat resume", zap.String("path", path), zap.Error(err))
		return failed(MsgUnexpected)
	}
	if err := ValidateFile(info.Name(), info.Size()); err != nil {
		return failedFrom(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("cannot read resume", zap.String("path", path), zap.Error(err))
		return failed(MsgUnexpected)
	}
	return c.Parse(ctx, info.Name(), content)
}

// Parse validates and uploads content under fileName
func (c *Client) Parse(ctx context.Context, fileName string, content []byte) types.ResumeParsingResult {
	if err := ValidateFile(fileName, int64(len(content))); err != nil {
		return failedFrom(err)
	}

	result, err := c.upload(ctx, fileName, content)
	if err != nil {
		c.logger.Warn("resume upload failed", zap.Error(err))
		return failed(MsgUploadFailed)
	}
	return result
}

// serviceResponse distinguishes a missing confidence from zero
type serviceResponse struct {
	Success    bool                    `json:"success"`
	Data       *types.ParsedResumeData `json:"data"`
	Error      string                  `json:"error"`
	Confidence *float64                `json:"confidence"`
	Warnings   []string                `json:"warnings"`
}

func (c *Client) upload(ctx context.Context, fileName string, content []byte) (types.ResumeParsingResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(FormField, filepath.Base(fileName))
	if err != nil {
		return types.ResumeParsingResult{}, &UploadError{Message: "failed to build form", Cause: err}
	}
	if _, err := part.Write(content); err != nil {
		return types.ResumeParsingResult{}, &UploadError{Message: "failed to build form", Cause: err}
	}
	if err := w.Close(); err != nil {
		return types.ResumeParsingResult{}, &UploadError{Message: "failed to build form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", &body)
	if err != nil {
		return types.ResumeParsingResult{}, &UploadError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.ResumeParsingResult{}, &UploadError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.ResumeParsingResult{}, &UploadError{Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.ResumeParsingResult{}, &UploadError{
			Message:    strings.TrimSpace(string(raw)),
			StatusCode: resp.StatusCode,
		}
	}

	var sr serviceResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return types.ResumeParsingResult{}, &UploadError{Message: "invalid response JSON", Cause: err}
	}

	result := types.ResumeParsingResult{
		Success:    sr.Success,
		Data:       sr.Data,
		Error:      sr.Error,
		Confidence: DefaultConfidence,
		Warnings:   sr.Warnings,
	}
	if sr.Confidence != nil {
		result.Confidence = *sr.Confidence
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	if result.Success && result.Data == nil {
		return types.ResumeParsingResult{}, &UploadError{Message: "successful response without data"}
	}
	return result, nil
}

func failed(msg string) types.ResumeParsingResult {
	return types.ResumeParsingResult{
		Success:    false,
		Error:      msg,
		Confidence: 0,
		Warnings:   []string{},
	}
}

func failedFrom(err error) types.ResumeParsingResult {
	var fe *FileError
	if errors.As(err, &fe) {
		return failed(fe.Message)
	}
	return failed(fmt.Sprintf("%v", err))
}
