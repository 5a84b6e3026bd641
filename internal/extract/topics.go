package extract

import "strings"

// Topic is one label of the insurance taxonomy.
type Topic string

const (
	TopicMedicare          Topic = "Medicare"
	TopicMedicareAdvantage Topic = "Medicare Advantage"
	TopicMedigap           Topic = "Medigap"
	TopicACA               Topic = "ACA/Marketplace"
	TopicMedicaid          Topic = "Medicaid"
	TopicPrescriptionDrugs Topic = "Prescription Drugs"
	TopicEnrollment        Topic = "Enrollment"
	TopicCosts             Topic = "Costs"
	TopicCoverage          Topic = "Coverage"
)

// TopicKeywords maps a topic to the lowercase substrings that indicate it.
type TopicKeywords struct {
	Topic    Topic
	Keywords []string
}

// TopicTable is the versioned keyword table. Entry order is the canonical
// order of Detect's output.
type TopicTable struct {
	Version string
	Entries []TopicKeywords
}

// DefaultTopicTable returns the production keyword table.
func DefaultTopicTable() TopicTable {
	return TopicTable{
		Version: "2026-10-01",
		Entries: []TopicKeywords{
			{TopicMedicare, []string{"medicare", "part a", "part b", "part c", "part d", "65", "turning 65"}},
			{TopicMedicareAdvantage, []string{"medicare advantage", "ma plan", "part c"}},
			{TopicMedigap, []string{"medigap", "supplement", "supplemental"}},
			{TopicACA, []string{"marketplace", "obamacare", "aca", "healthcare.gov", "subsidy", "subsidies"}},
			{TopicMedicaid, []string{"medicaid", "low income", "medicaid expansion"}},
			{TopicPrescriptionDrugs, []string{"drug", "medication", "prescription", "part d", "pharmacy"}},
			{TopicEnrollment, []string{"enroll", "sign up", "open enrollment", "deadline"}},
			{TopicCosts, []string{"cost", "premium", "deductible", "copay", "afford"}},
			{TopicCoverage, []string{"cover", "coverage", "benefit", "include"}},
		},
	}
}

// TopicDetector tags messages using a TopicTable.
type TopicDetector struct {
	table TopicTable
}

// NewTopicDetector builds a detector. Keywords are lowercased up front.
func NewTopicDetector(table TopicTable) *TopicDetector {
	normalized := TopicTable{Version: table.Version, Entries: make([]TopicKeywords, len(table.Entries))}
	for i, entry := range table.Entries {
		keywords := make([]string, len(entry.Keywords))
		for j, kw := range entry.Keywords {
			keywords[j] = strings.ToLower(kw)
		}
		normalized.Entries[i] = TopicKeywords{Topic: entry.Topic, Keywords: keywords}
	}
	return &TopicDetector{table: normalized}
}

// Detect returns every topic whose keywords appear in message, once each, in
// table order.
func (d *TopicDetector) Detect(message string) []Topic {
	lower := strings.ToLower(message)
	var topics []Topic
	seen := make(map[Topic]struct{})
	for _, entry := range d.table.Entries {
		if _, dup := seen[entry.Topic]; dup {
			continue
		}
		for _, kw := range entry.Keywords {
			if kw != "" && strings.Contains(lower, kw) {
				topics = append(topics, entry.Topic)
				seen[entry.Topic] = struct{}{}
				break
			}
		}
	}
	return topics
}

// MergeTopics appends the topics in next that are not already in current.
func MergeTopics(current []Topic, next ...Topic) []Topic {
	seen := make(map[Topic]struct{}, len(current))
	for _, t := range current {
		seen[t] = struct{}{}
	}
	out := append([]Topic(nil), current...)
	for _, t := range next {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// TopicStrings converts topics for storage and JSON.
func TopicStrings(topics []Topic) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = string(t)
	}
	return out
}

// ParseTopics is the inverse of TopicStrings.
func ParseTopics(values []string) []Topic {
	out := make([]Topic, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, Topic(v))
		}
	}
	return out
}
