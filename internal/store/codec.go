package store

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/call-intel/internal/model"
)

// encodeArtifact marshals an optional artifact; nil stays nil so the column
// is written as NULL.
func encodeArtifact[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal artifact")
	}
	return b, nil
}

func decodeSales(raw []byte) (*model.SalesData, error) {
	if isNullJSON(raw) {
		return nil, nil
	}
	var s model.SalesData
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal sales data")
	}
	s.Normalize()
	return &s, nil
}

func decodeCall(raw []byte) (*model.CallAnalysis, error) {
	if isNullJSON(raw) {
		return nil, nil
	}
	var c model.CallAnalysis
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal call analysis")
	}
	c.Normalize()
	return &c, nil
}

// decodeArtifacts fills the artifacts of rec from their raw columns. A column
// that does not fit the artifact type is logged and left nil, so the other
// column still counts for the cache check.
func decodeArtifacts(rec *model.CachedAnalysis, sales, call []byte) {
	var err error
	if rec.SalesData, err = decodeSales(sales); err != nil {
		zap.L().Warn("store: unreadable sales data, treating as absent",
			zap.String("transcript_id", rec.TranscriptID), zap.Error(err))
	}
	if rec.CallAnalysis, err = decodeCall(call); err != nil {
		zap.L().Warn("store: unreadable call analysis, treating as absent",
			zap.String("transcript_id", rec.TranscriptID), zap.Error(err))
	}
}

// isNullJSON reports whether a stored column holds no artifact: SQL NULL,
// JSON null or an empty object.
func isNullJSON(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	if raw[0] != '{' {
		return false
	}
	var fields map[string]json.RawMessage
	return json.Unmarshal(raw, &fields) == nil && len(fields) == 0
}

// nullable converts an encoded value for a driver argument, mapping nil to NULL.
func nullable(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

// prepareTranscript fills the defaults of a transcript about to be saved.
func prepareTranscript(t *model.Transcript) error {
	if t == nil {
		return eris.New("store: nil transcript")
	}
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Language == "" {
		t.Language = model.DefaultLanguage
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return nil
}

// prepareEnrichment fills the defaults of an enrichment about to be saved.
func prepareEnrichment(e *model.Enrichment) error {
	if e == nil {
		return eris.New("store: nil enrichment")
	}
	if e.TranscriptID == "" || e.Kind == "" {
		return eris.New("store: enrichment needs a transcript id and kind")
	}
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Status == "" {
		e.Status = model.EnrichmentPending
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return nil
}

func newID() string {
	return uuid.New().String()
}
