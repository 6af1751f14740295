package agent

import "strings"

// Intent labels what a user utterance is probably asking for. The
// classifier is a routing hint only: it never decides the final answer,
// it just lets the orchestrator warm up likely tool results.
type Intent string

const (
	IntentWebSearch       Intent = "web_search"
	IntentSendEmail       Intent = "send_email"
	IntentSystemCommand   Intent = "system_command"
	IntentGeneralQuestion Intent = "general_question"
	IntentUnknown         Intent = "unknown"
)

// Classification is an intent guess with its confidence.
type Classification struct {
	Intent     Intent
	Confidence float64
}

// Confidence thresholds for acting on a classification.
const (
	webSearchThreshold = 0.6
	defaultThreshold   = 0.7
)

var intentKeywords = []struct {
	intent     Intent
	confidence float64
	keywords   []string
}{
	{IntentWebSearch, 0.8, []string{
		"search", "look up", "find out", "what is the latest",
		"news", "current", "weather", "today",
	}},
	{IntentSendEmail, 0.8, []string{
		"email", "send a message", "compose", "mail",
	}},
	{IntentSystemCommand, 0.7, []string{
		"run", "execute", "command", "terminal",
		"system info", "cpu", "memory", "disk",
	}},
}

// Classifier guesses intent from keyword heuristics. It is deliberately
// simple; being wrong costs one wasted pre-fetch, nothing more.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the first keyword category that matches, or
// general_question when none does. Blank input classifies as unknown
// with zero confidence.
func (c *Classifier) Classify(utterance string) Classification {
	lower := strings.ToLower(strings.TrimSpace(utterance))
	if lower == "" {
		return Classification{Intent: IntentUnknown}
	}

	for _, group := range intentKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return Classification{Intent: group.intent, Confidence: group.confidence}
			}
		}
	}

	return Classification{Intent: IntentGeneralQuestion, Confidence: 0.9}
}

// Actionable reports whether the classification clears its intent's
// confidence threshold.
func (cl Classification) Actionable() bool {
	if cl.Intent == IntentWebSearch {
		return cl.Confidence >= webSearchThreshold
	}
	return cl.Confidence >= defaultThreshold
}
