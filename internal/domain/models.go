package domain

// UploadRequest carries one inbound upload through the processing pipeline.
// Quality holds the raw form value; parsing and the silent default live in
// the pipeline, not at the transport boundary. RequestID tags every log line
// emitted for this upload on both sides of the service boundary.
type UploadRequest struct {
	Data      []byte
	Filename  string
	Quality   string
	RequestID string
}

// UploadResult is the payload returned to the caller after a successful
// upload. Field names match the public API contract.
type UploadResult struct {
	Message              string  `json:"message"`
	ProcessedImage       string  `json:"processed_image"`
	OriginalSize         int64   `json:"original_size"`
	ProcessedSize        int64   `json:"processed_size"`
	SizeReductionPercent float64 `json:"size_reduction_percent"`
}

// FileInfo describes one stored artifact in the listing endpoint.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
