package analytics

import (
	"fmt"
	"testing"
)

// allRulesScenario builds inputs that trigger every insight rule at once:
// tiny participation share, a single content type over >5 messages, a
// reading-heavy vote ratio, ignored teacher posts, unanswered polls, bursty
// consistency, and questions that never get replies.
func allRulesScenario() ([]MessageRecord, []ReplyRecord, []VoteRecord, []PollVoteRecord, []BookmarkRecord) {
	var messages []MessageRecord

	// 6 text questions by dana on 4 distinct days across a 15-day window.
	days := []string{"2024-01-01", "2024-01-05", "2024-01-10", "2024-01-15", "2024-01-15", "2024-01-15"}
	for i, day := range days {
		messages = append(messages, MessageRecord{
			ID:        fmt.Sprintf("d%d", i),
			Sender:    "dana",
			Role:      "student",
			Timestamp: day + " 09:00:00",
			Content:   "can someone explain this?",
		})
	}

	// 120 messages by others so dana's share drops below 5%.
	for i := 0; i < 120; i++ {
		m := MessageRecord{
			ID:      fmt.Sprintf("o%d", i),
			Sender:  fmt.Sprintf("student%d", i%10),
			Role:    "student",
			Content: "chatter",
		}
		if i < 5 {
			m.Sender = "mr_smith"
			m.Role = "teacher"
		}
		if i >= 5 && i < 8 {
			m.IsPoll = true
		}
		messages = append(messages, m)
	}

	// 19 upvotes given pushes reading/writing ratio above 3 (19/6).
	var votes []VoteRecord
	for i := 0; i < 19; i++ {
		votes = append(votes, VoteRecord{Username: "dana", Kind: "up", ContentID: fmt.Sprintf("o%d", i)})
	}

	return messages, nil, votes, nil, nil
}

func TestAllRulesTriggeredCapsAtFive(t *testing.T) {
	messages, replies, votes, pollVotes, bookmarks := allRulesScenario()

	report := ComputeStudentAnalytics(messages, replies, votes, pollVotes, bookmarks, "dana")

	// Sanity on the preconditions each rule reads.
	if report.PersonalEngagement.ParticipationPercentage >= 5 {
		t.Fatalf("participation = %v, scenario must sit below 5%%", report.PersonalEngagement.ParticipationPercentage)
	}
	if report.LearningBehavior.ReadingWritingRatio <= 3 {
		t.Fatalf("reading/writing ratio = %v, scenario must exceed 3", report.LearningBehavior.ReadingWritingRatio)
	}
	if report.ProgressIndicators.ConsistencyScore >= 30 {
		t.Fatalf("consistency = %v, scenario must sit below 30", report.ProgressIndicators.ConsistencyScore)
	}

	insights := report.ActionableInsights
	if len(insights) != 5 {
		t.Fatalf("insights = %d, want exactly 5 after cap", len(insights))
	}

	// Ordered high -> medium -> low.
	rank := map[string]int{"high": 0, "medium": 1, "low": 2}
	for i := 1; i < len(insights); i++ {
		if rank[insights[i-1].Importance] > rank[insights[i].Importance] {
			t.Fatalf("insights out of order at %d: %s after %s", i, insights[i].Importance, insights[i-1].Importance)
		}
	}
	if insights[0].Importance != "high" || insights[0].Type != "participation" {
		t.Fatalf("insights[0] = %+v, want high participation insight first", insights[0])
	}
}

func TestHealthyStudentGetsNoInsights(t *testing.T) {
	// An engaged student: large participation share, varied content, balanced
	// reading/writing, answered questions.
	messages := []MessageRecord{
		{ID: "m1", Sender: "dana", Role: "student", Timestamp: "2024-01-01 09:00:00", Content: "notes attached", FileURL: "notes.pdf"},
		{ID: "m2", Sender: "dana", Role: "student", Timestamp: "2024-01-02 09:00:00", Content: "does this hold?"},
		{ID: "m3", Sender: "bob", Role: "student", Timestamp: "2024-01-02 10:00:00", Content: "yes"},
	}
	replies := []ReplyRecord{
		{ID: "r1", QuestionID: "m2", Sender: "bob", Role: "student", Timestamp: "2024-01-02 09:30:00", Content: "it does"},
	}
	votes := []VoteRecord{
		{Username: "dana", Kind: "up", ContentID: "m3"},
	}

	report := ComputeStudentAnalytics(messages, replies, votes, nil, nil, "dana")
	if len(report.ActionableInsights) != 0 {
		t.Fatalf("expected no insights, got %+v", report.ActionableInsights)
	}
}

func TestParticipationTiers(t *testing.T) {
	// 1 own message of 10 total contributions = 10%: the medium tier.
	messages := []MessageRecord{{ID: "m0", Sender: "dana", Content: "hello"}}
	for i := 1; i < 10; i++ {
		messages = append(messages, MessageRecord{ID: fmt.Sprintf("m%d", i), Sender: "bob", Content: "x"})
	}

	report := ComputeStudentAnalytics(messages, nil, nil, nil, nil, "dana")
	var participation []Insight
	for _, in := range report.ActionableInsights {
		if in.Type == "participation" {
			participation = append(participation, in)
		}
	}
	if len(participation) != 1 {
		t.Fatalf("participation insights = %d, want 1", len(participation))
	}
	if participation[0].Importance != "medium" {
		t.Fatalf("importance = %q, want medium for 10%%", participation[0].Importance)
	}
}

func TestContentVarietyRequiresMoreThanFiveMessages(t *testing.T) {
	var messages []MessageRecord
	for i := 0; i < 5; i++ {
		messages = append(messages, MessageRecord{ID: fmt.Sprintf("m%d", i), Sender: "dana", Content: "text only"})
	}

	report := ComputeStudentAnalytics(messages, nil, nil, nil, nil, "dana")
	for _, in := range report.ActionableInsights {
		if in.Type == "content_variety" {
			t.Fatalf("content_variety must not fire at exactly 5 messages")
		}
	}

	messages = append(messages, MessageRecord{ID: "m5", Sender: "dana", Content: "still text"})
	report = ComputeStudentAnalytics(messages, nil, nil, nil, nil, "dana")
	found := false
	for _, in := range report.ActionableInsights {
		if in.Type == "content_variety" {
			found = true
		}
	}
	if !found {
		t.Fatal("content_variety should fire at 6 single-type messages")
	}
}
