// Package offline provides a deterministic fallback responder used
// when the assistant backend cannot answer. Replies are canned,
// topic-keyed guidance so the conversation always continues.
package offline

import (
	"strings"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

// Ensure Responder implements the interfaces.
var (
	_ driven.OfflineResponder = (*Responder)(nil)
	_ driven.ReplyStoreAware  = (*Responder)(nil)
)

// topicKeywords maps prompt keywords onto reply names. Matching order
// is fixed in classify.
var topicKeywords = map[string][]string{
	driven.ReplyGreeting: {
		"hello", "hi ", "hey", "good morning", "good afternoon", "good evening",
	},
	driven.ReplyVisas: {
		"visa", "passport", "document", "permit", "immigration", "cas", "i-20",
	},
	driven.ReplyUniversities: {
		"university", "universities", "college", "course", "programme", "program",
		"degree", "admission", "apply", "application",
	},
	driven.ReplyCosts: {
		"cost", "fee", "tuition", "price", "budget", "scholarship", "funding",
		"expensive", "afford",
	},
}

// defaultReplies are the embedded fallbacks when no ReplyStore is
// configured.
var defaultReplies = map[string]string{
	driven.ReplyGreeting: "Hello! I'm Zoe, your study-abroad assistant. I'm offline right now, " +
		"but I can still share general guidance on visas, universities, and costs. " +
		"What would you like to know?",

	driven.ReplyVisas: "For most study destinations you'll need a valid passport, an offer letter " +
		"from your institution, proof of funds, and a completed visa application. " +
		"Requirements vary by country, so check the official immigration site for " +
		"your destination. Once I'm back online I can give you a checklist tailored " +
		"to your course and nationality.",

	driven.ReplyUniversities: "Choosing a university comes down to course content, entry requirements, " +
		"location, and budget. Shortlist three to five institutions, check their " +
		"application deadlines, and prepare your transcripts early. When I'm back " +
		"online I can compare specific universities and courses for you.",

	driven.ReplyCosts: "Plan for tuition fees, accommodation, insurance, and day-to-day living " +
		"costs. Many institutions offer scholarships and early-payment discounts, " +
		"and some countries allow part-time work on a student visa. When I'm back " +
		"online I can estimate costs for a specific destination.",

	driven.ReplyDefault: "I can't reach the StudyBridge knowledge base right now, so here's some " +
		"general guidance: start with your destination country's official student " +
		"visa pages, keep digital copies of your documents, and note every " +
		"application deadline. Ask me again shortly and I'll have a proper answer " +
		"for you.",
}

// agentNote is appended for professional audiences, who have their own
// support channel.
const agentNote = " For urgent cases, your StudyBridge partnership contact can help directly."

// Responder generates canned replies. Safe for concurrent use.
type Responder struct {
	replyStore driven.ReplyStore
}

// NewResponder creates a new offline responder.
func NewResponder() *Responder {
	return &Responder{}
}

// SetReplyStore sets the reply store for loading customisable replies.
// If not set, the responder uses hardcoded default replies.
func (r *Responder) SetReplyStore(store driven.ReplyStore) {
	r.replyStore = store
}

// Respond returns the canned reply for the prompt's topic.
func (r *Responder) Respond(prompt string, audience domain.Audience) string {
	reply := r.loadReply(classify(prompt))

	switch audience {
	case domain.AudienceAgent, domain.AudiencePartner:
		return reply + agentNote
	default:
		return reply
	}
}

// loadReply loads a reply from the store, falling back to the embedded
// default if unavailable.
func (r *Responder) loadReply(name string) string {
	fallback := defaultReplies[name]
	if r.replyStore == nil {
		return fallback
	}
	reply, err := r.replyStore.Load(name)
	if err != nil || reply == "" {
		return fallback
	}
	return reply
}

// classify picks the reply name for a prompt. Topics are checked
// before the greeting so "hi, what about visas?" reads as a question,
// not a greeting: a greeting only wins when no other topic matches.
func classify(prompt string) string {
	lowered := " " + strings.ToLower(strings.TrimSpace(prompt)) + " "

	for _, name := range []string{
		driven.ReplyVisas,
		driven.ReplyUniversities,
		driven.ReplyCosts,
		driven.ReplyGreeting,
	} {
		for _, keyword := range topicKeywords[name] {
			if strings.Contains(lowered, keyword) {
				return name
			}
		}
	}
	return driven.ReplyDefault
}
