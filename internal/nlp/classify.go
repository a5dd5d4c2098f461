// Package nlp provides intent classification and entity extraction for
// free-form user text. Both are pure functions with no side effects.
package nlp

import "strings"

// Intent is a coarse category of user request. The set is closed.
type Intent string

const (
	IntentTime     Intent = "time"
	IntentDate     Intent = "date"
	IntentReminder Intent = "reminder"
	IntentSearch   Intent = "search"
	IntentMath     Intent = "math"
	IntentGreeting Intent = "greeting"
	IntentHelp     Intent = "help"
	IntentGoodbye  Intent = "goodbye"
	IntentUnknown  Intent = "unknown"
)

// matchConfidence is reported for every trigger-phrase hit.
const matchConfidence = 0.9

// intentEntry pairs an intent with its trigger phrases. Phrases are plain
// substrings, matched against the lowercased input.
type intentEntry struct {
	intent  Intent
	phrases []string
}

// intentTable is ordered: classification is first-match-wins over intents
// in declaration order, then phrases in declaration order. Ties between
// intents whose phrases both appear go to the earlier entry. The order and
// phrase lists are a behavioral compatibility contract; do not reorder.
var intentTable = []intentEntry{
	{IntentTime, []string{"what time", "current time", "tell me time", "what's the time"}},
	{IntentDate, []string{"what date", "current date", "today's date", "what's today"}},
	{IntentReminder, []string{"remind me", "set reminder", "set a reminder", "create reminder"}},
	{IntentSearch, []string{"search for", "find information", "web search", "look up", "google"}},
	{IntentMath, []string{"calculate", "solve", "what is", "how much", "multiply", "add", "subtract", "divide"}},
	{IntentGreeting, []string{"hello", "hi", "hey", "greetings", "what's up"}},
	{IntentHelp, []string{"help", "what can you do", "available commands", "capabilities"}},
	{IntentGoodbye, []string{"goodbye", "bye", "exit", "quit", "see you"}},
}

// Result holds a classified intent with its confidence and source text.
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Text       string  `json:"text"`
}

// Classify maps raw text to an intent. The text is lowercased and trimmed,
// then scanned against the intent table; the first intent with a matching
// trigger phrase wins with fixed confidence 0.9. No match yields
// unknown/0.0.
func Classify(text string) Result {
	normalized := strings.ToLower(strings.TrimSpace(text))

	for _, entry := range intentTable {
		for _, phrase := range entry.phrases {
			if strings.Contains(normalized, phrase) {
				return Result{
					Intent:     entry.intent,
					Confidence: matchConfidence,
					Text:       text,
				}
			}
		}
	}

	return Result{
		Intent:     IntentUnknown,
		Confidence: 0.0,
		Text:       text,
	}
}

// Command bundles an intent classification with the entities extracted
// from the same text.
type Command struct {
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Text       string   `json:"text"`
	Entities   Entities `json:"entities"`
}

// ParseCommand classifies the text and extracts its entities in one pass.
func ParseCommand(text string) Command {
	r := Classify(text)
	return Command{
		Intent:     r.Intent,
		Confidence: r.Confidence,
		Text:       text,
		Entities:   Extract(text),
	}
}
