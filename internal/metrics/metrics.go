package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics holds the Prometheus collectors for the analysis pipeline.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	AnalysesTotal          *prometheus.CounterVec
	AnalysisSeconds        *prometheus.HistogramVec
	StageFailuresTotal     *prometheus.CounterVec
	BreakdownTierTotal     *prometheus.CounterVec
	SummaryCorrectionTotal *prometheus.CounterVec
	TranscriptSourceTotal  *prometheus.CounterVec
	EngineRequestsTotal    *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *PipelineMetrics
)

// Default returns the process-wide metrics registered on the default registry.
func Default() *PipelineMetrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewPipelineMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewPipelineMetrics registers a fresh set of collectors on reg.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)

	return &PipelineMetrics{
		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_analyzer_analyses_total",
				Help: "Total analysis runs by outcome",
			},
			[]string{"status"},
		),
		AnalysisSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "video_analyzer_analysis_seconds",
				Help:    "End-to-end analysis latency",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"status"},
		),
		StageFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_analyzer_stage_failures_total",
				Help: "Analysis stages that returned an error",
			},
			[]string{"stage"},
		),
		BreakdownTierTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_analyzer_breakdown_tier_total",
				Help: "Content breakdown attempts per tier and verdict",
			},
			[]string{"tier", "verdict"},
		),
		SummaryCorrectionTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_analyzer_summary_corrections_total",
				Help: "Summary length corrections applied",
			},
			[]string{"action"},
		),
		TranscriptSourceTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_analyzer_transcript_source_total",
				Help: "Transcripts obtained per source",
			},
			[]string{"source"},
		),
		EngineRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_analyzer_engine_requests_total",
				Help: "Chat completion requests per provider and outcome",
			},
			[]string{"provider", "status"},
		),
	}
}

// ObserveAnalysis records one finished analysis run.
func (m *PipelineMetrics) ObserveAnalysis(status string, seconds float64) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(status).Inc()
	m.AnalysisSeconds.WithLabelValues(status).Observe(seconds)
}

func (m *PipelineMetrics) ObserveStageFailure(stage string) {
	if m == nil {
		return
	}
	m.StageFailuresTotal.WithLabelValues(stage).Inc()
}

func (m *PipelineMetrics) ObserveBreakdownTier(tier string, accepted bool) {
	if m == nil {
		return
	}
	verdict := "rejected"
	if accepted {
		verdict = "accepted"
	}
	m.BreakdownTierTotal.WithLabelValues(tier, verdict).Inc()
}

func (m *PipelineMetrics) ObserveSummaryCorrection(action string) {
	if m == nil {
		return
	}
	m.SummaryCorrectionTotal.WithLabelValues(action).Inc()
}

func (m *PipelineMetrics) ObserveTranscriptSource(source string) {
	if m == nil {
		return
	}
	m.TranscriptSourceTotal.WithLabelValues(source).Inc()
}

func (m *PipelineMetrics) ObserveEngineRequest(provider string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.EngineRequestsTotal.WithLabelValues(provider, status).Inc()
}
