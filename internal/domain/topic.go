package domain

import (
	"time"

	"github.com/google/uuid"
)

type TopicID string

const (
	TopicParenting  TopicID = "parenting"
	TopicConception TopicID = "conception"
	TopicCustody    TopicID = "custody"
	TopicLiving     TopicID = "living"
	TopicLegal      TopicID = "legal"
	TopicFinancial  TopicID = "financial"
)

type Topic struct {
	ID    TopicID `json:"id"`
	Title string  `json:"title"`
}

var topicCatalog = []Topic{
	{ID: TopicParenting, Title: "Parenting philosophy"},
	{ID: TopicConception, Title: "Conception method"},
	{ID: TopicCustody, Title: "Custody rhythm"},
	{ID: TopicLiving, Title: "Living situation"},
	{ID: TopicLegal, Title: "Legal setup"},
	{ID: TopicFinancial, Title: "Financial expectations"},
}

// Topics returns a copy of the fixed topic catalog in display order.
func Topics() []Topic {
	out := make([]Topic, len(topicCatalog))
	copy(out, topicCatalog)
	return out
}

// LookupTopic returns the catalog entry for id.
func LookupTopic(id TopicID) (Topic, bool) {
	for _, t := range topicCatalog {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

type TopicStatus string

const (
	TopicNone    TopicStatus = "none"
	TopicPartial TopicStatus = "partial"
	TopicCovered TopicStatus = "covered"
)

type ConversationTopic struct {
	ConversationID   uuid.UUID `json:"conversation_id" db:"conversation_id"`
	TopicID          TopicID   `json:"topic_id" db:"topic_id"`
	SeekerCovered    bool      `json:"seeker_covered" db:"seeker_covered"`
	CandidateCovered bool      `json:"candidate_covered" db:"candidate_covered"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

func (t *ConversationTopic) Status() TopicStatus {
	return CoverageStatus(t.SeekerCovered, t.CandidateCovered)
}

// Set writes the flag owned by role and leaves the other untouched.
func (t *ConversationTopic) Set(role PartyRole, covered bool) {
	switch role {
	case RoleSeeker:
		t.SeekerCovered = covered
	case RoleCandidate:
		t.CandidateCovered = covered
	}
}

func CoverageStatus(seeker, candidate bool) TopicStatus {
	switch {
	case seeker && candidate:
		return TopicCovered
	case seeker || candidate:
		return TopicPartial
	default:
		return TopicNone
	}
}

// TopicChecklistItem is one catalog topic with the conversation's coverage state.
type TopicChecklistItem struct {
	Topic
	SeekerCovered    bool        `json:"seeker_covered"`
	CandidateCovered bool        `json:"candidate_covered"`
	Status           TopicStatus `json:"status"`
}

// BuildChecklist expands stored rows into the full catalog; topics without a row are none.
func BuildChecklist(rows []*ConversationTopic) []TopicChecklistItem {
	byID := make(map[TopicID]*ConversationTopic, len(rows))
	for _, r := range rows {
		byID[r.TopicID] = r
	}

	items := make([]TopicChecklistItem, 0, len(topicCatalog))
	for _, t := range topicCatalog {
		item := TopicChecklistItem{Topic: t, Status: TopicNone}
		if r, ok := byID[t.ID]; ok {
			item.SeekerCovered = r.SeekerCovered
			item.CandidateCovered = r.CandidateCovered
			item.Status = r.Status()
		}
		items = append(items, item)
	}
	return items
}
