package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverageStatus(t *testing.T) {
	tests := []struct {
		name      string
		seeker    bool
		candidate bool
		want      TopicStatus
	}{
		{"neither", false, false, TopicNone},
		{"seeker only", true, false, TopicPartial},
		{"candidate only", false, true, TopicPartial},
		{"both", true, true, TopicCovered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoverageStatus(tt.seeker, tt.candidate))
		})
	}
}

func TestConversationTopic_StepsThroughStatuses(t *testing.T) {
	row := &ConversationTopic{TopicID: TopicCustody}
	assert.Equal(t, TopicNone, row.Status())

	row.Set(RoleSeeker, true)
	assert.Equal(t, TopicPartial, row.Status())

	row.Set(RoleCandidate, true)
	assert.Equal(t, TopicCovered, row.Status())

	row.Set(RoleCandidate, false)
	assert.Equal(t, TopicPartial, row.Status())
	assert.True(t, row.SeekerCovered)

	row.Set(RoleSeeker, false)
	assert.Equal(t, TopicNone, row.Status())
}

func TestBuildChecklist_FillsMissingTopics(t *testing.T) {
	rows := []*ConversationTopic{
		{TopicID: TopicFinancial, CandidateCovered: true},
		{TopicID: TopicParenting, SeekerCovered: true, CandidateCovered: true},
	}

	items := BuildChecklist(rows)

	require.Len(t, items, 6)
	assert.Equal(t, TopicParenting, items[0].ID)
	assert.Equal(t, TopicCovered, items[0].Status)
	assert.Equal(t, TopicNone, items[1].Status)
	assert.Equal(t, TopicFinancial, items[5].ID)
	assert.Equal(t, TopicPartial, items[5].Status)
	assert.True(t, items[5].CandidateCovered)
}

func TestLookupTopic(t *testing.T) {
	topic, ok := LookupTopic(TopicLegal)
	require.True(t, ok)
	assert.Equal(t, "Legal setup", topic.Title)

	_, ok = LookupTopic("astrology")
	assert.False(t, ok)
}

func TestTopics_ReturnsCopy(t *testing.T) {
	list := Topics()
	list[0].Title = "changed"

	assert.Equal(t, "Parenting philosophy", Topics()[0].Title)
}
