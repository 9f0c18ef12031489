package domain

import "strings"

// NextStepMenu identifies which follow-up choices are offered after a quiz round.
type NextStepMenu string

const (
	// MenuEqual is offered when every category scored the same.
	MenuEqual NextStepMenu = "equal"
	// MenuWeak is offered when at least one category is weaker than the rest.
	MenuWeak NextStepMenu = "weak"
	// MenuContinue is offered when neither of the above applies, e.g. nothing was graded.
	MenuContinue NextStepMenu = "continue"
)

// NextStepAction is the user's choice from a NextStepMenu.
type NextStepAction string

const (
	ActionSameTopic NextStepAction = "same_topic"
	ActionNextTopic NextStepAction = "next_topic"
	ActionFocusWeak NextStepAction = "focus_weak"
	ActionEnd       NextStepAction = "end"
)

// UnknownTopic stands in when a focused round has no previous topic to reuse.
const UnknownTopic = "Unknown Topic"

// NextStepDecision carries the chosen action and whatever the action needs.
// Topic is read for ActionNextTopic; Difficulty and QuizCount for ActionNextTopic
// and ActionFocusWeak.
type NextStepDecision struct {
	Action     NextStepAction `json:"action"`
	Topic      string         `json:"topic,omitempty"`
	Difficulty string         `json:"difficulty,omitempty"`
	QuizCount  int            `json:"quiz_count,omitempty"`
}

// NextStepOptions picks the menu that applies to report.
func NextStepOptions(report *ProgressReport) NextStepMenu {
	switch {
	case report == nil:
		return MenuContinue
	case report.EqualPerformance:
		return MenuEqual
	case len(report.WeakCategories) > 0:
		return MenuWeak
	default:
		return MenuContinue
	}
}

// Actions lists the choices a menu accepts, in display order.
func (m NextStepMenu) Actions() []NextStepAction {
	switch m {
	case MenuEqual:
		return []NextStepAction{ActionSameTopic, ActionNextTopic, ActionEnd}
	case MenuWeak:
		return []NextStepAction{ActionFocusWeak, ActionEnd}
	default:
		return []NextStepAction{ActionSameTopic, ActionEnd}
	}
}

// Allows reports whether action is one of the menu's choices.
func (m NextStepMenu) Allows(action NextStepAction) bool {
	for _, a := range m.Actions() {
		if a == action {
			return true
		}
	}
	return false
}

// PlanNextRound turns a decision into the configuration of the next round.
// redirect is false when the session should end. A nil config with redirect true
// means the previous configuration is unknown and the caller must ask for a new one.
func PlanNextRound(prev *QuizConfig, report *ProgressReport, d NextStepDecision) (next *QuizConfig, redirect bool, err error) {
	menu := NextStepOptions(report)
	if !menu.Allows(d.Action) {
		return nil, false, NewInvalidInputError("action " + string(d.Action) + " is not available for menu " + string(menu))
	}

	switch d.Action {
	case ActionEnd:
		return nil, false, nil

	case ActionSameTopic:
		if prev == nil {
			return nil, true, nil
		}
		cfg := prev.Clone()
		return &cfg, true, nil

	case ActionNextTopic:
		cfg := QuizConfig{
			Topic:      strings.TrimSpace(d.Topic),
			Difficulty: NormalizeDifficulty(d.Difficulty),
			QuizCount:  d.QuizCount,
		}
		if err := cfg.Validate(); err != nil {
			return nil, false, err
		}
		return &cfg, true, nil

	case ActionFocusWeak:
		if d.QuizCount <= 0 {
			return nil, false, NewInvalidInputError("quiz_count must be a positive integer")
		}
		topic := UnknownTopic
		if prev != nil && strings.TrimSpace(prev.Topic) != "" {
			topic = prev.Topic
		}
		cfg := QuizConfig{
			Topic:           topic,
			Difficulty:      NormalizeDifficulty(d.Difficulty),
			QuizCount:       d.QuizCount,
			FocusCategories: append([]string(nil), report.WeakCategories...),
		}
		return &cfg, true, nil
	}

	return nil, false, NewInvalidInputError("unknown action " + string(d.Action))
}
