package generator

import (
	"log"
	"strings"
)

// checkQuestionQuality logs warnings for questions that passed schema
// validation but look weak. Warnings never reject a question — the quiz
// keeps moving and the logs drive prompt tuning.
func checkQuestionQuality(q *GeneratedQuestion, requestedTopics []string) {
	if len(q.Options) != 4 {
		log.Printf("[generator] WARNING: question %s has %d options, expected 4", q.ID, len(q.Options))
	}

	seen := make(map[string]bool)
	for _, opt := range q.Options {
		key := strings.ToLower(strings.TrimSpace(opt))
		if seen[key] {
			log.Printf("[generator] WARNING: question %s has duplicate option %q", q.ID, opt)
		}
		seen[key] = true
	}

	if len(q.Explanation) < 40 {
		log.Printf("[generator] WARNING: question %s explanation is only %d chars", q.ID, len(q.Explanation))
	}

	if q.Topic != "" && len(requestedTopics) > 0 && !containsFold(requestedTopics, q.Topic) {
		log.Printf("[generator] WARNING: question %s topic %q not among requested topics", q.ID, q.Topic)
	}
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
