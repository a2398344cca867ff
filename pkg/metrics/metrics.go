// Package metrics exposes Prometheus instrumentation for the live
// session pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters and gauges. Create one per
// registry; tests pass their own registry to avoid global state.
type Metrics struct {
	AudioChunksSent   prometheus.Counter
	FramesSent        prometheus.Counter
	FramesSkipped     prometheus.Counter
	BuffersScheduled  prometheus.Counter
	Interrupts        prometheus.Counter
	TurnsFinalized    prometheus.Counter
	GesturesValidated prometheus.Counter
	TransportErrors   prometheus.Counter
	InputLevel        prometheus.Gauge
	PendingPlayback   prometheus.Gauge
}

// New registers the pipeline metrics on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AudioChunksSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "mudra_live_audio_chunks_sent_total",
			Help: "Outbound audio chunks handed to the channel.",
		}),
		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "mudra_live_frames_sent_total",
			Help: "Outbound video frames handed to the channel.",
		}),
		FramesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "mudra_live_frames_skipped_total",
			Help: "Frame sampler ticks skipped due to grab or encode failure.",
		}),
		BuffersScheduled: factory.NewCounter(prometheus.CounterOpts{
			Name: "mudra_live_playback_buffers_scheduled_total",
			Help: "Model audio buffers scheduled for playback.",
		}),
		Interrupts: factory.NewCounter(prometheus.CounterOpts{
			Name: "mudra_live_playback_interrupts_total",
			Help: "Remote interrupt signals that flushed playback.",
		}),
		TurnsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "mudra_live_turns_finalized_total",
			Help: "Transcript turns committed on turn-complete.",
		}),
		GesturesValidated: factory.NewCounter(prometheus.CounterOpts{
			Name: "mudra_live_gestures_validated_total",
			Help: "Model turns that produced a gesture validation.",
		}),
		TransportErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "mudra_live_transport_errors_total",
			Help: "Channel failures that force-closed the session.",
		}),
		InputLevel: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mudra_live_input_level_rms",
			Help: "RMS level of the most recent outbound audio chunk.",
		}),
		PendingPlayback: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mudra_live_playback_pending_buffers",
			Help: "Playback buffers queued or playing.",
		}),
	}
}
