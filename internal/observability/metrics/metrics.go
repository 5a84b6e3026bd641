package metrics

import "github.com/prometheus/client_golang/prometheus"

// Turn handlers recorded by ObserveTurn.
const (
	HandlerScheduling = "scheduling"
	HandlerLLM        = "llm"
)

// ChatMetrics exposes counters/histograms for chat turns.
type ChatMetrics struct {
	turnsTotal      *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec
	llmErrors       *prometheus.CounterVec
	leadsCaptured   *prometheus.CounterVec
	agentSuggested  prometheus.Counter
	schedulingSteps *prometheus.CounterVec
}

// NewChatMetrics registers the chat collectors on reg (the default registerer when nil).
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clara",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat turns by the component that produced the reply",
		}, []string{"handler"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clara",
			Subsystem: "chat",
			Name:      "llm_latency_seconds",
			Help:      "Latency of language model completions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"purpose"}),
		llmErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clara",
			Subsystem: "chat",
			Name:      "llm_errors_total",
			Help:      "Failed language model completions",
		}, []string{"purpose"}),
		leadsCaptured: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clara",
			Subsystem: "chat",
			Name:      "leads_captured_total",
			Help:      "Leads recorded, by source",
		}, []string{"source"}),
		agentSuggested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clara",
			Subsystem: "chat",
			Name:      "agent_suggested_total",
			Help:      "Turns where the response suggested a licensed agent",
		}),
		schedulingSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clara",
			Subsystem: "chat",
			Name:      "scheduling_steps_total",
			Help:      "Scheduling steps reached after each turn",
		}, []string{"step"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.llmLatency, m.llmErrors, m.leadsCaptured, m.agentSuggested, m.schedulingSteps)
	return m
}

func (m *ChatMetrics) ObserveTurn(handler string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(handler).Inc()
}

func (m *ChatMetrics) ObserveLLMLatency(purpose string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(purpose).Observe(seconds)
}

func (m *ChatMetrics) ObserveLLMError(purpose string) {
	if m == nil {
		return
	}
	m.llmErrors.WithLabelValues(purpose).Inc()
}

func (m *ChatMetrics) ObserveLeadCaptured(source string) {
	if m == nil {
		return
	}
	m.leadsCaptured.WithLabelValues(source).Inc()
}

func (m *ChatMetrics) ObserveAgentSuggested() {
	if m == nil {
		return
	}
	m.agentSuggested.Inc()
}

func (m *ChatMetrics) ObserveStep(step string) {
	if m == nil {
		return
	}
	m.schedulingSteps.WithLabelValues(step).Inc()
}
