package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hireloop/hireloop/internal/providers/llm"
)

// ExtractedField is one resume field with its confidence and where it
// came from.
type ExtractedField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"` // "ai" | "regex" | "manual"
}

type ExtractedFields struct {
	Name  ExtractedField `json:"name"`
	Email ExtractedField `json:"email"`
	Phone ExtractedField `json:"phone"`
}

// ExtractionService pulls candidate contact fields out of raw resume
// text. The generative path is preferred; regex matching backs it up,
// and the call never fails.
type ExtractionService interface {
	Extract(ctx context.Context, text string) ExtractedFields
}

type extractionService struct {
	provider llm.Provider
	log      *logrus.Logger
	timeout  time.Duration
}

func NewExtractionService(provider llm.Provider, log *logrus.Logger) ExtractionService {
	if log == nil {
		log = logrus.New()
	}
	return &extractionService{provider: provider, log: log, timeout: 15 * time.Second}
}

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
	nameRe  = regexp.MustCompile(`(?m)^[A-Z][a-z]+ [A-Z][a-z]+`)
)

func extractWithRegex(text string) ExtractedFields {
	var out ExtractedFields
	if m := emailRe.FindString(text); m != "" {
		out.Email = ExtractedField{Value: m, Confidence: 0.85, Source: "regex"}
	} else {
		out.Email.Source = "regex"
	}
	if m := phoneRe.FindString(text); m != "" {
		out.Phone = ExtractedField{Value: m, Confidence: 0.80, Source: "regex"}
	} else {
		out.Phone.Source = "regex"
	}
	if m := nameRe.FindString(text); m != "" {
		out.Name = ExtractedField{Value: m, Confidence: 0.70, Source: "regex"}
	} else {
		out.Name.Source = "regex"
	}
	return out
}

func (s *extractionService) Extract(ctx context.Context, text string) ExtractedFields {
	regexFields := extractWithRegex(text)

	if s.provider == nil {
		return regexFields
	}

	prompt := `You are an expert resume parser. Extract the candidate's information with confidence scores.

Extract and return JSON in this exact format:
{
  "name": {"value": "Full Name", "confidence": 0.95},
  "email": {"value": "email@example.com", "confidence": 0.98},
  "phone": {"value": "+1-555-123-4567", "confidence": 0.90}
}

Rules:
- confidence: 0.0-1.0 based on how certain you are
- value: null if not found or uncertain
- Look for patterns: name at top, email with @, phone with digits/dashes

Resume text:
` + text

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Complete(cctx, prompt)
	if err != nil {
		s.log.WithError(err).Warn("extraction backend degraded, using regex fields")
		return regexFields
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		s.log.Warn("extraction backend returned unparsable output, using regex fields")
		return regexFields
	}

	var parsed map[string]struct {
		Value      *string `json:"value"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		s.log.WithError(err).Warn("extraction backend returned invalid json, using regex fields")
		return regexFields
	}

	merge := func(key string, regexField ExtractedField) ExtractedField {
		if f, ok := parsed[key]; ok && f.Value != nil && *f.Value != "" && f.Confidence > 0.5 {
			conf := f.Confidence
			if conf > 0.98 {
				conf = 0.98
			}
			return ExtractedField{Value: *f.Value, Confidence: conf, Source: "ai"}
		}
		if regexField.Value != "" {
			return regexField
		}
		return ExtractedField{Source: "ai"}
	}

	return ExtractedFields{
		Name:  merge("name", regexFields.Name),
		Email: merge("email", regexFields.Email),
		Phone: merge("phone", regexFields.Phone),
	}
}
