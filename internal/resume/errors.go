package resume

import "fmt"

// Messages returned in a failed ResumeParsingResult
const (
	MsgUnsupportedFormat = "Unsupported file format. Please upload PDF, DOC, or DOCX files only."
	MsgFileTooLarge      = "File size exceeds 5MB limit. Please upload a smaller file."
	MsgUploadFailed      = "Failed to upload or parse resume via backend"
	MsgUnexpected        = "Unexpected error during resume parsing. Please try again."
)

// FileError represents a file rejected before upload
type FileError struct {
	FileName string
	Message  string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.FileName, e.Message)
}

// UploadError represents a failed exchange with the parsing service
type UploadError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("resume upload failed (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("resume upload failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("resume upload failed: %s", e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}
