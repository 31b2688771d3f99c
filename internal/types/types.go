package types

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// OperationMode identifies one of the three processing pipelines
type OperationMode string

const (
	// ModeDocumentCheck verifies presence and structure of required documents
	ModeDocumentCheck OperationMode = "document_check"

	// ModeStatusAnalysis extracts and analyzes project data across documents
	ModeStatusAnalysis OperationMode = "status_analysis"

	// ModeLearningModule presents PM guidance when documentation is sparse
	ModeLearningModule OperationMode = "learning_module"
)

// IsValid checks if the mode is one of the known operation modes
func (m OperationMode) IsValid() bool {
	switch m {
	case ModeDocumentCheck, ModeStatusAnalysis, ModeLearningModule:
		return true
	}
	return false
}

// Display returns a human-readable name, e.g. "Status Analysis"
func (m OperationMode) Display() string {
	return titleCase(string(m))
}

// FileFormat identifies a supported file format by its canonical extension
type FileFormat string

const (
	FormatMarkdown         FileFormat = "md"
	FormatExcel            FileFormat = "xlsx"
	FormatExcelLegacy      FileFormat = "xls"
	FormatMicrosoftProject FileFormat = "mpp"
	FormatYAML             FileFormat = "yaml"
	FormatJSON             FileFormat = "json"
	FormatCSV              FileFormat = "csv"
)

// IsValid checks if the format is one of the supported formats
func (f FileFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatExcel, FormatExcelLegacy, FormatMicrosoftProject,
		FormatYAML, FormatJSON, FormatCSV:
		return true
	}
	return false
}

// DocumentType classifies a file as a kind of project-management document
type DocumentType string

const (
	DocCharter             DocumentType = "charter"
	DocRiskRegister        DocumentType = "risk_register"
	DocStakeholderRegister DocumentType = "stakeholder_register"
	DocWBS                 DocumentType = "wbs"
	DocRoadmap             DocumentType = "roadmap"
	DocProjectSchedule     DocumentType = "project_schedule"
	DocStatusReport        DocumentType = "status_report"
	DocRequirements        DocumentType = "requirements"
	DocUnknown             DocumentType = "unknown"
)

// AllDocumentTypes lists every document type in canonical declaration order.
// Deterministic output (available/missing lists, report sections) sorts by
// position in this slice.
var AllDocumentTypes = []DocumentType{
	DocCharter,
	DocRiskRegister,
	DocStakeholderRegister,
	DocWBS,
	DocRoadmap,
	DocProjectSchedule,
	DocStatusReport,
	DocRequirements,
	DocUnknown,
}

// IsValid checks if the document type is a known classification
func (d DocumentType) IsValid() bool {
	for _, t := range AllDocumentTypes {
		if d == t {
			return true
		}
	}
	return false
}

// Display returns a human-readable name, e.g. "Risk Register"
func (d DocumentType) Display() string {
	if d == DocWBS {
		return "WBS"
	}
	return titleCase(string(d))
}

// Rank returns the document type's position in canonical order, for sorting
func (d DocumentType) Rank() int {
	for i, t := range AllDocumentTypes {
		if d == t {
			return i
		}
	}
	return len(AllDocumentTypes)
}

// SortDocumentTypes sorts document types into canonical order in place and
// returns the slice
func SortDocumentTypes(docs []DocumentType) []DocumentType {
	for i := 1; i < len(docs); i++ {
		for j := i; j > 0 && docs[j].Rank() < docs[j-1].Rank(); j-- {
			docs[j], docs[j-1] = docs[j-1], docs[j]
		}
	}
	return docs
}

// ProcessingStatus tracks the lifecycle of a file through a processor
type ProcessingStatus string

const (
	StatusNotStarted ProcessingStatus = "not_started"
	StatusInProgress ProcessingStatus = "in_progress"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
	StatusSkipped    ProcessingStatus = "skipped"
)

// FileInfo describes a discovered project file. Instances are produced by
// the scanner and consumed by the mode detector, processors, and reporters.
type FileInfo struct {
	Path             string           `json:"path"`
	Format           FileFormat       `json:"format"`
	DocumentType     DocumentType     `json:"document_type"`
	SizeBytes        int64            `json:"size_bytes"`
	LastModified     time.Time        `json:"last_modified"`
	IsReadable       bool             `json:"is_readable"`
	ProcessingStatus ProcessingStatus `json:"processing_status,omitempty"`
	ErrorMessage     string           `json:"error_message,omitempty"`

	// MatchedPatterns lists every document type whose patterns matched the
	// filename. The first entry is DocumentType.
	MatchedPatterns []DocumentType `json:"matched_patterns,omitempty"`
}

// Filename returns the base name of the file
func (f *FileInfo) Filename() string {
	return filepath.Base(f.Path)
}

// Extension returns the lowercase file extension including the dot
func (f *FileInfo) Extension() string {
	return strings.ToLower(filepath.Ext(f.Path))
}

// Validate checks that the descriptor is well formed. The mode detector
// rejects the whole input batch when any descriptor fails validation.
func (f *FileInfo) Validate() error {
	if f == nil {
		return NewValidationError("file descriptor is nil", nil)
	}
	if f.Path == "" {
		return NewValidationError("file descriptor has empty path", nil)
	}
	if f.SizeBytes < 0 {
		return NewValidationError(fmt.Sprintf("file %s has negative size %d", f.Filename(), f.SizeBytes), nil)
	}
	if !f.Format.IsValid() {
		return NewValidationError(fmt.Sprintf("file %s has unknown format %q", f.Filename(), f.Format), nil)
	}
	if !f.DocumentType.IsValid() {
		return NewValidationError(fmt.Sprintf("file %s has unknown document type %q", f.Filename(), f.DocumentType), nil)
	}
	return nil
}

// MarkProcessed records successful processing
func (f *FileInfo) MarkProcessed() {
	f.ProcessingStatus = StatusCompleted
	f.ErrorMessage = ""
}

// MarkFailed records a processing failure with its reason
func (f *FileInfo) MarkFailed(msg string) {
	f.ProcessingStatus = StatusFailed
	f.ErrorMessage = msg
}

// Recommendation is the mode detector's output: the recommended operation
// mode with confidence, reasoning, and the evidence behind the choice.
// Construct via NewRecommendation, which clamps scores; treat as immutable
// afterwards.
type Recommendation struct {
	RecommendedMode    OperationMode            `json:"recommended_mode"`
	ConfidenceScore    float64                  `json:"confidence_score"`
	Reasoning          string                   `json:"reasoning"`
	AvailableDocuments []DocumentType           `json:"available_documents"`
	MissingDocuments   []DocumentType           `json:"missing_documents"`
	FileQualityScores  map[DocumentType]float64 `json:"file_quality_scores"`
	AlternativeModes   []OperationMode          `json:"alternative_modes"`
}

// NewRecommendation builds a recommendation, clamping the confidence score
// and every per-type quality score into [0, 1]
func NewRecommendation(mode OperationMode, confidence float64, reasoning string,
	available, missing []DocumentType,
	quality map[DocumentType]float64,
	alternatives []OperationMode) *Recommendation {

	clamped := make(map[DocumentType]float64, len(quality))
	for doc, score := range quality {
		clamped[doc] = Clamp01(score)
	}
	return &Recommendation{
		RecommendedMode:    mode,
		ConfidenceScore:    Clamp01(confidence),
		Reasoning:          reasoning,
		AvailableDocuments: available,
		MissingDocuments:   missing,
		FileQualityScores:  clamped,
		AlternativeModes:   alternatives,
	}
}

// ConfidencePercentage returns the confidence as a whole percentage
func (r *Recommendation) ConfidencePercentage() int {
	return int(r.ConfidenceScore * 100)
}

// IsHighConfidence checks whether confidence meets the given threshold
func (r *Recommendation) IsHighConfidence(threshold float64) bool {
	return r.ConfidenceScore >= threshold
}

// QualityLabel converts a quality score into a reader-facing grade
func QualityLabel(score float64) string {
	switch {
	case score > 0.90:
		return "Excellent"
	case score >= 0.75:
		return "Good"
	case score >= 0.60:
		return "Fair"
	default:
		return "Poor"
	}
}

// QualitySummary maps each scored document type to its grade label
func (r *Recommendation) QualitySummary() map[DocumentType]string {
	summary := make(map[DocumentType]string, len(r.FileQualityScores))
	for doc, score := range r.FileQualityScores {
		summary[doc] = QualityLabel(score)
	}
	return summary
}

// ProcessingResult captures the outcome of running a processor or another
// pipeline stage: success flag, payload, and accumulated errors/warnings
type ProcessingResult struct {
	Success   bool           `json:"success"`
	Operation string         `json:"operation"`
	FilePath  string         `json:"file_path,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
	Duration  time.Duration  `json:"duration"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewProcessingResult returns a successful, empty result for an operation
func NewProcessingResult(operation string) *ProcessingResult {
	return &ProcessingResult{
		Success:   true,
		Operation: operation,
		Data:      map[string]any{},
		Timestamp: time.Now(),
	}
}

// AddError records an error and marks the result failed
func (r *ProcessingResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Success = false
}

// AddWarning records a non-fatal warning
func (r *ProcessingResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Summary returns a one-line description of the result
func (r *ProcessingResult) Summary() string {
	status := "SUCCESS"
	if !r.Success {
		status = "FAILED"
	}
	s := fmt.Sprintf("%s: %s", r.Operation, status)
	if len(r.Errors) > 0 {
		s += fmt.Sprintf(" (%d errors)", len(r.Errors))
	}
	if len(r.Warnings) > 0 {
		s += fmt.Sprintf(" (%d warnings)", len(r.Warnings))
	}
	return s
}

// Clamp01 clamps v into [0.0, 1.0]
func Clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// titleCase converts a snake_case identifier to "Title Case"
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
