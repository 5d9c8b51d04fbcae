package model

import "time"

// DefaultLanguage is assumed when a transcript has no language or cannot be loaded.
const DefaultLanguage = "pt"

// Transcript is a stored call transcript.
type Transcript struct {
	ID              string    `json:"id"`
	Text            string    `json:"transcript"`
	Language        string    `json:"language"`
	StoragePath     string    `json:"storage_path,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CachedAnalysis is the persisted analysis for a transcript. Either artifact
// may be absent (nil) when it was never produced or only one was updated.
type CachedAnalysis struct {
	TranscriptID string        `json:"transcript_id"`
	SalesData    *SalesData    `json:"sales_data,omitempty"`
	CallAnalysis *CallAnalysis `json:"call_analysis,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasArtifacts reports whether at least one artifact is present.
func (c *CachedAnalysis) HasArtifacts() bool {
	return c != nil && (c.SalesData != nil || c.CallAnalysis != nil)
}

// ArtifactQuality describes how an artifact in a result was produced.
type ArtifactQuality string

const (
	QualityOK       ArtifactQuality = "ok"       // parsed as returned by the model
	QualityRepaired ArtifactQuality = "repaired" // missing fields were injected
	QualityDefault  ArtifactQuality = "default"  // sample artifact substituted
	QualityEmpty    ArtifactQuality = "empty"    // stage failed, empty value substituted
	QualityCached   ArtifactQuality = "cached"   // served from the stored record
)

// ExtractionQuality reports per-artifact provenance for a result.
type ExtractionQuality struct {
	SalesData    ArtifactQuality `json:"sales_data"`
	CallAnalysis ArtifactQuality `json:"call_analysis"`
}

// Degraded reports whether either artifact came from a fallback path.
func (q ExtractionQuality) Degraded() bool {
	bad := func(a ArtifactQuality) bool { return a == QualityDefault || a == QualityEmpty }
	return bad(q.SalesData) || bad(q.CallAnalysis)
}

// ResultSource tells whether a result was extracted or served from cache.
type ResultSource string

const (
	SourcePipeline ResultSource = "pipeline"
	SourceCache    ResultSource = "cache"
)

// AnalysisResult is what the pipeline hands back for a transcript. Both
// artifacts are always present and well-typed, possibly empty.
type AnalysisResult struct {
	TranscriptID string            `json:"transcript_id"`
	SalesData    SalesData         `json:"sales_data"`
	CallAnalysis CallAnalysis      `json:"call_analysis"`
	Source       ResultSource      `json:"source"`
	Quality      ExtractionQuality `json:"quality"`
}

// Clone returns a deep copy of r.
func (r *AnalysisResult) Clone() *AnalysisResult {
	c := *r
	c.SalesData = r.SalesData.Clone()
	c.CallAnalysis = r.CallAnalysis.Clone()
	return &c
}

// PipelineStep names a state of the analysis pipeline.
type PipelineStep string

const (
	StepStart          PipelineStep = "start"
	StepCacheCheck     PipelineStep = "cache_check"
	StepCacheHit       PipelineStep = "cache_hit"
	StepLoadTranscript PipelineStep = "load_transcript"
	StepExtractSales   PipelineStep = "extract_sales"
	StepExtractCall    PipelineStep = "extract_call"
	StepPersist        PipelineStep = "persist"
	StepDone           PipelineStep = "done"
)

// Terminal reports whether the step ends the pipeline.
func (s PipelineStep) Terminal() bool {
	return s == StepCacheHit || s == StepDone
}

// StepRecord is one entry of a pipeline trace.
type StepRecord struct {
	Step       PipelineStep `json:"step"`
	DurationMs int64        `json:"duration_ms"`
	Err        string       `json:"error,omitempty"`
}

// PipelineState is the per-invocation working record of the pipeline. It is
// filled stage by stage and discarded once the result is built.
type PipelineState struct {
	TranscriptID   string
	TranscriptText string
	Language       string
	SalesData      SalesData
	CallAnalysis   CallAnalysis
	Quality        ExtractionQuality
	Step           PipelineStep
	Trace          []StepRecord
}

// NewPipelineState creates the state for a fresh run with empty artifacts.
func NewPipelineState(transcriptID string) *PipelineState {
	return &PipelineState{
		TranscriptID: transcriptID,
		Language:     DefaultLanguage,
		SalesData:    EmptySalesData(),
		CallAnalysis: EmptyCallAnalysis(),
		Quality: ExtractionQuality{
			SalesData:    QualityEmpty,
			CallAnalysis: QualityEmpty,
		},
		Step: StepStart,
	}
}

// Result freezes the state into an AnalysisResult.
func (s *PipelineState) Result() *AnalysisResult {
	sales := s.SalesData
	sales.Normalize()
	call := s.CallAnalysis
	call.Normalize()
	return &AnalysisResult{
		TranscriptID: s.TranscriptID,
		SalesData:    sales,
		CallAnalysis: call,
		Source:       SourcePipeline,
		Quality:      s.Quality,
	}
}

// ResultFromCache builds an AnalysisResult from a stored record. Absent
// artifacts are reported as empty values.
func ResultFromCache(rec *CachedAnalysis) *AnalysisResult {
	res := &AnalysisResult{
		TranscriptID: rec.TranscriptID,
		SalesData:    EmptySalesData(),
		CallAnalysis: EmptyCallAnalysis(),
		Source:       SourceCache,
		Quality: ExtractionQuality{
			SalesData:    QualityEmpty,
			CallAnalysis: QualityEmpty,
		},
	}
	if rec.SalesData != nil {
		res.SalesData = *rec.SalesData
		res.SalesData.Normalize()
		res.Quality.SalesData = QualityCached
	}
	if rec.CallAnalysis != nil {
		res.CallAnalysis = *rec.CallAnalysis
		res.CallAnalysis.Normalize()
		res.Quality.CallAnalysis = QualityCached
	}
	return res
}
