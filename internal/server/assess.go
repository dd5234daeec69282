package server

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/readmark/readmark/internal/chapter"
	"github.com/readmark/readmark/internal/observe"
	"github.com/readmark/readmark/internal/scoring"
	"github.com/readmark/readmark/pkg/audio"
)

// assessResponse is the JSON body returned from a successful assessment.
type assessResponse struct {
	ChapterID     string  `json:"chapter_id"`
	Transcript    string  `json:"transcript"`
	Accuracy      float64 `json:"accuracy"`
	Completeness  float64 `json:"completeness"`
	OrderAccuracy float64 `json:"order_accuracy"`
	FluencyWPM    float64 `json:"fluency_wpm"`
	SpeedCategory string  `json:"speed_category"`
	Suspicious    bool    `json:"suspicious"`
	Grade         string  `json:"grade"`
	Remarks       string  `json:"remarks"`

	Details assessDetails `json:"details"`
}

// assessDetails carries the raw alignment counts behind the percentages.
type assessDetails struct {
	MatchedWords        int     `json:"matched_words"`
	TotalStudentWords   int     `json:"total_student_words"`
	TotalReferenceWords int     `json:"total_reference_words"`
	AudioDurationSecs   float64 `json:"audio_duration_seconds"`
}

// handleAssessAudio handles POST /assess/audio. The request is multipart
// form data with an "audio" file (WAV) and a "chapter_id" field.
func (s *Server) handleAssessAudio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := observe.Logger(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload", "expected multipart form data with an audio file")
		return
	}

	chapterID := r.FormValue("chapter_id")
	if chapterID == "" {
		writeError(w, http.StatusBadRequest, "missing chapter_id", "chapter_id form field is required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file", "audio form field is required")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".wav" {
		writeError(w, http.StatusBadRequest, "unsupported audio format", "only .wav recordings are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload", err.Error())
		return
	}

	info, err := audio.Probe(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid audio", "the uploaded file is not a valid WAV recording")
		return
	}
	if info.Duration < s.minAudioDuration {
		writeError(w, http.StatusBadRequest, "recording too short",
			"recordings shorter than "+s.minAudioDuration.String()+" cannot be assessed")
		return
	}

	ch, err := s.chapters.Get(ctx, chapterID)
	if err != nil {
		if errors.Is(err, chapter.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chapter not found", "no chapter with id "+chapterID)
			return
		}
		log.Error("chapter lookup failed", "chapter_id", chapterID, "error", err)
		writeError(w, http.StatusInternalServerError, "chapter lookup failed", "")
		return
	}

	// Transcription.
	tctx, span := observe.StartSpan(ctx, "asr.transcribe", trace.WithAttributes(
		observe.Attr("chapter_id", chapterID),
	))
	start := time.Now()
	transcript, err := s.recognizer.Transcribe(tctx, bytes.NewReader(data))
	s.metrics.TranscriptionDuration.Record(ctx, time.Since(start).Seconds())
	span.End()
	if err != nil {
		s.metrics.RecordASRError(ctx, "whisper")
		log.Error("transcription failed", "chapter_id", chapterID, "error", err)
		writeError(w, http.StatusInternalServerError, "transcription failed", "")
		return
	}

	normalized := scoring.Normalize(transcript.Text)
	if normalized == "" {
		writeError(w, http.StatusUnprocessableEntity, "empty transcript",
			"no speech was recognised in the recording")
		return
	}
	wordCount := len(scoring.Tokenize(normalized))

	// Scoring.
	start = time.Now()
	report := s.currentEvaluator().Evaluate(transcript.Text, ch.Text, info.Duration, wordCount)
	s.metrics.EvaluationDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(observe.Attr("grade", report.Grade)),
	)

	s.metrics.RecordAssessment(ctx, report.Grade, string(report.Speed))
	if report.Suspicious {
		s.metrics.RecordSuspiciousReading(ctx)
	}

	log.Info("assessment completed",
		"chapter_id", chapterID,
		"grade", report.Grade,
		"accuracy", report.Accuracy,
		"completeness", report.Completeness,
		"wpm", report.FluencyWPM,
		"suspicious", report.Suspicious,
	)

	writeJSON(w, http.StatusOK, assessResponse{
		ChapterID:     chapterID,
		Transcript:    normalized,
		Accuracy:      round2(report.Accuracy),
		Completeness:  round2(report.Completeness),
		OrderAccuracy: round2(report.OrderAccuracy),
		FluencyWPM:    round1(report.FluencyWPM),
		SpeedCategory: string(report.Speed),
		Suspicious:    report.Suspicious,
		Grade:         report.Grade,
		Remarks:       report.Remarks,
		Details: assessDetails{
			MatchedWords:        report.Alignment.Matched,
			TotalStudentWords:   report.Alignment.TotalCandidate,
			TotalReferenceWords: report.Alignment.TotalReference,
			AudioDurationSecs:   round2(info.Duration.Seconds()),
		},
	})
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
