// Package guide suggests discussion prompts for a conversation topic.
package guide

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

// Authorizer resolves a conversation and the requester's side of it.
type Authorizer interface {
	Authorize(ctx context.Context, conversationID, requesterID uuid.UUID) (*domain.Conversation, domain.PartyRole, error)
}

// PromptGenerator produces prompts for a topic, usually through a language model.
type PromptGenerator interface {
	GenerateTopicPrompts(ctx context.Context, topic domain.Topic, language string) ([]string, error)
}

const (
	SourceAI     = "ai"
	SourceStatic = "static"
)

type Prompts struct {
	Topic   domain.Topic `json:"topic"`
	Prompts []string     `json:"prompts"`
	Source  string       `json:"source"`
}

type GuideUseCase struct {
	authorizer Authorizer
	generator  PromptGenerator
	logger     *slog.Logger
}

// NewGuideUseCase builds the use case. generator may be nil, in which case
// only the built-in prompts are served.
func NewGuideUseCase(authorizer Authorizer, generator PromptGenerator, logger *slog.Logger) *GuideUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuideUseCase{
		authorizer: authorizer,
		generator:  generator,
		logger:     logger.With("component", "guide"),
	}
}

// Prompts returns discussion prompts for topicID within a conversation the
// requester is a party to. Generator failures fall back to built-in prompts.
func (uc *GuideUseCase) Prompts(ctx context.Context, conversationID, requesterID uuid.UUID, topicID domain.TopicID, language string) (*Prompts, error) {
	if _, _, err := uc.authorizer.Authorize(ctx, conversationID, requesterID); err != nil {
		return nil, err
	}
	topic, ok := domain.LookupTopic(topicID)
	if !ok {
		return nil, domain.NewValidationError("topic_id", fmt.Sprintf("unknown topic %q", topicID))
	}

	if uc.generator != nil {
		prompts, err := uc.generator.GenerateTopicPrompts(ctx, topic, language)
		switch {
		case err != nil:
			uc.logger.WarnContext(ctx, "prompt generation failed, using static prompts",
				"topic", topicID, "error", err)
		case len(prompts) > 0:
			return &Prompts{Topic: topic, Prompts: prompts, Source: SourceAI}, nil
		}
	}

	return &Prompts{Topic: topic, Prompts: StaticPrompts(topicID), Source: SourceStatic}, nil
}

var staticPrompts = map[domain.TopicID][]string{
	domain.TopicParenting: {
		"What values do you most want to pass on to a child?",
		"How do you approach discipline and setting boundaries?",
		"What role do you see extended family playing?",
	},
	domain.TopicConception: {
		"Which conception methods are you open to?",
		"How do you feel about medical screening before trying to conceive?",
		"What timeline do you have in mind?",
	},
	domain.TopicCustody: {
		"What does a typical week look like for the child in your view?",
		"How would you split holidays and birthdays?",
		"How should decisions be made when we disagree?",
	},
	domain.TopicLiving: {
		"How far apart could we live and still make this work?",
		"Would you consider relocating, and under what conditions?",
		"What does your current home and work schedule look like?",
	},
	domain.TopicLegal: {
		"Would you want a written co-parenting agreement?",
		"How do you feel about each of us having independent legal advice?",
		"How should parental rights be recorded?",
	},
	domain.TopicFinancial: {
		"How should everyday costs for the child be shared?",
		"How do you think about saving for education?",
		"What happens financially if one of us has a change in income?",
	},
}

// StaticPrompts returns a copy of the built-in prompts for topicID.
func StaticPrompts(topicID domain.TopicID) []string {
	src := staticPrompts[topicID]
	out := make([]string, len(src))
	copy(out, src)
	return out
}
