package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	d := NewTopicDetector(DefaultTopicTable())

	tests := []struct {
		message string
		want    []Topic
	}{
		{
			message: "What's the deductible for my Medicare Advantage plan?",
			want:    []Topic{TopicMedicare, TopicMedicareAdvantage, TopicCosts},
		},
		{
			message: "Does Part D cover my prescriptions?",
			want:    []Topic{TopicMedicare, TopicPrescriptionDrugs, TopicCoverage},
		},
		{
			message: "When is open enrollment for Obamacare?",
			want:    []Topic{TopicACA, TopicEnrollment},
		},
		{
			message: "I'm low income, do I qualify for MEDICAID?",
			want:    []Topic{TopicMedicaid},
		},
		{
			message: "Tell me about Medigap supplement plans",
			want:    []Topic{TopicMedigap},
		},
		{
			message: "hello there",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.message))
		})
	}
}

func TestDetect_OrderIndependentOfMessage(t *testing.T) {
	d := NewTopicDetector(DefaultTopicTable())
	a := d.Detect("premium and medigap")
	b := d.Detect("medigap and premium")
	assert.Equal(t, a, b)
}

func TestDetect_CustomTable(t *testing.T) {
	d := NewTopicDetector(TopicTable{
		Version: "test",
		Entries: []TopicKeywords{
			{TopicCoverage, []string{"DENTAL"}},
			{TopicCoverage, []string{"vision"}},
		},
	})
	assert.Equal(t, []Topic{TopicCoverage}, d.Detect("dental and vision"))
}

func TestMergeTopics(t *testing.T) {
	got := MergeTopics([]Topic{TopicMedicare}, TopicCosts, TopicMedicare, TopicCosts)
	assert.Equal(t, []Topic{TopicMedicare, TopicCosts}, got)

	assert.Equal(t, []string{"Medicare", "Costs"}, TopicStrings(got))
	assert.Equal(t, got, ParseTopics([]string{"Medicare", " ", "Costs"}))
}
