package analytics

import (
	"encoding/json"
	"fmt"
	"testing"
)

// Scenario: 10 messages (5 by alice, 5 by others), 2 replies to alice's
// messages (1 from a teacher), no bookmarks or poll votes.
func aliceScenario() ([]MessageRecord, []ReplyRecord) {
	var messages []MessageRecord
	for i := 0; i < 5; i++ {
		messages = append(messages, MessageRecord{
			ID:        fmt.Sprintf("a%d", i),
			Sender:    "alice",
			Role:      "student",
			Timestamp: fmt.Sprintf("2024-03-0%d 10:00:00", i+1),
			Content:   "how does this work?",
		})
	}
	for i := 0; i < 5; i++ {
		messages = append(messages, MessageRecord{
			ID:        fmt.Sprintf("b%d", i),
			Sender:    "bob",
			Role:      "student",
			Timestamp: fmt.Sprintf("2024-03-0%d 14:00:00", i+1),
			Content:   "a note",
		})
	}
	replies := []ReplyRecord{
		{ID: "r1", QuestionID: "a0", Sender: "carol", Role: "student", Timestamp: "2024-03-01 10:30:00", Content: "like this"},
		{ID: "r2", QuestionID: "a1", Sender: "mr_smith", Role: "teacher", Timestamp: "2024-03-02 11:00:00", Content: "see chapter 3"},
	}
	return messages, replies
}

func TestStudentParticipationAndResponseRate(t *testing.T) {
	messages, replies := aliceScenario()

	report := ComputeStudentAnalytics(messages, replies, nil, nil, nil, "alice")

	pe := report.PersonalEngagement
	if pe.MessagesPosted != 5 || pe.RepliesPosted != 0 || pe.TotalContributions != 5 {
		t.Fatalf("personal engagement counts = %+v", pe)
	}
	// 100 * 5 / max(10+2, 1)
	if pe.ParticipationPercentage != 41.67 {
		t.Fatalf("participation_percentage = %v, want 41.67", pe.ParticipationPercentage)
	}
	if pe.ActiveDays != 5 {
		t.Fatalf("active_days = %d, want 5", pe.ActiveDays)
	}

	// 2 of alice's 5 messages have replies.
	if report.SocialInteraction.ResponseRate != 40.0 {
		t.Fatalf("response_rate = %v, want 40.0", report.SocialInteraction.ResponseRate)
	}
}

func TestTeacherInteractionRateFloorsDenominator(t *testing.T) {
	messages, replies := aliceScenario()

	// No teacher-authored messages exist, but one teacher reply landed on
	// alice's message: numerator 1, denominator floored at 1.
	report := ComputeStudentAnalytics(messages, replies, nil, nil, nil, "alice")
	if report.SocialInteraction.TeacherInteractionRate != 100.0 {
		t.Fatalf("teacher_interaction_rate = %v, want 100.0", report.SocialInteraction.TeacherInteractionRate)
	}
	if report.RoomTotals.TeacherMessages != 0 {
		t.Fatalf("teacher_messages = %d, want 0", report.RoomTotals.TeacherMessages)
	}
}

func TestTeacherInteractionBothEventTypesCounted(t *testing.T) {
	messages := []MessageRecord{
		{ID: "t1", Sender: "mr_smith", Role: "teacher", Content: "read this"},
		{ID: "t2", Sender: "mr_smith", Role: "teacher", Content: "quiz friday"},
		{ID: "s1", Sender: "dana", Role: "student", Content: "confused about t1"},
	}
	replies := []ReplyRecord{
		// dana replies to a teacher message.
		{ID: "r1", QuestionID: "t1", Sender: "dana", Role: "student"},
		// a teacher replies to dana's message.
		{ID: "r2", QuestionID: "s1", Sender: "mr_smith", Role: "teacher"},
	}

	report := ComputeStudentAnalytics(messages, replies, nil, nil, nil, "dana")
	// numerator 2 (one of each event type), denominator 2 teacher messages.
	if report.SocialInteraction.TeacherInteractionRate != 100.0 {
		t.Fatalf("teacher_interaction_rate = %v, want 100.0", report.SocialInteraction.TeacherInteractionRate)
	}
}

func TestVotesGivenAndReceived(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "dana", Upvotes: 4, Downvotes: 1},
	}
	replies := []ReplyRecord{
		{ID: "r1", QuestionID: "m1", Sender: "dana", Upvotes: 2, Downvotes: 2},
	}
	votes := []VoteRecord{
		{Username: "dana", Kind: "up", ContentID: "x1"},
		{Username: "dana", Kind: "up", ContentID: "x2"},
		{Username: "dana", Kind: "down", ContentID: "x3"},
		{Username: "someone_else", Kind: "up", ContentID: "m1"},
		// Duplicates are deliberately not collapsed.
		{Username: "dana", Kind: "up", ContentID: "x1"},
	}

	report := ComputeStudentAnalytics(messages, replies, votes, nil, nil, "dana")
	si := report.SocialInteraction
	if si.UpvotesGiven != 3 || si.DownvotesGiven != 1 {
		t.Fatalf("votes given = %d up / %d down, want 3/1", si.UpvotesGiven, si.DownvotesGiven)
	}
	if si.UpvotesReceived != 6 || si.DownvotesReceived != 3 {
		t.Fatalf("votes received = %d up / %d down, want 6/3", si.UpvotesReceived, si.DownvotesReceived)
	}
	if si.NetContributionScore != 3 {
		t.Fatalf("net_contribution_score = %d, want 3", si.NetContributionScore)
	}
}

func TestConsistencyScoreFullSpan(t *testing.T) {
	var messages []MessageRecord
	for i := 1; i <= 3; i++ {
		messages = append(messages, MessageRecord{
			ID:        fmt.Sprintf("m%d", i),
			Sender:    "dana",
			Timestamp: fmt.Sprintf("2024-01-0%d 09:00:00", i),
		})
	}

	report := ComputeStudentAnalytics(messages, nil, nil, nil, nil, "dana")
	pi := report.ProgressIndicators
	// 3 active days spanning 3 calendar days inclusive.
	if pi.ConsistencyScore != 100.0 {
		t.Fatalf("consistency_score = %v, want 100.0", pi.ConsistencyScore)
	}
	if pi.InactiveDays != 0 || pi.LongestGapDays != 0 {
		t.Fatalf("inactive days = %d / longest gap %d, want 0/0", pi.InactiveDays, pi.LongestGapDays)
	}
}

func TestFlatActivityTrendIsStable(t *testing.T) {
	var messages []MessageRecord
	for i := 1; i <= 3; i++ {
		messages = append(messages, MessageRecord{
			ID:        fmt.Sprintf("m%d", i),
			Sender:    "dana",
			Timestamp: fmt.Sprintf("2024-01-0%d 09:00:00", i),
		})
	}

	report := ComputeStudentAnalytics(messages, nil, nil, nil, nil, "dana")
	trend := report.ProgressIndicators.Trend
	if trend == nil {
		t.Fatal("expected a trend with 3 distinct dates")
	}
	if trend.Slope != 0 {
		t.Fatalf("slope = %v, want 0 for flat histogram", trend.Slope)
	}
	if trend.Direction != "stable" {
		t.Fatalf("direction = %q, want stable", trend.Direction)
	}
	if trend.DailyChange != 0 {
		t.Fatalf("daily_change = %v, want 0", trend.DailyChange)
	}
}

func TestTrendAbsentUnderTwoDates(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "dana", Timestamp: "2024-01-01 09:00:00"},
		{ID: "m2", Sender: "dana", Timestamp: "2024-01-01 17:00:00"},
		{ID: "m3", Sender: "dana", Timestamp: "garbage"},
	}

	report := ComputeStudentAnalytics(messages, nil, nil, nil, nil, "dana")
	if report.ProgressIndicators.Trend != nil {
		t.Fatal("expected nil trend with a single distinct date")
	}
	// The malformed-timestamp message is still a contribution.
	if report.PersonalEngagement.MessagesPosted != 3 {
		t.Fatalf("messages_posted = %d, want 3", report.PersonalEngagement.MessagesPosted)
	}
	if report.PersonalEngagement.ActiveDays != 1 {
		t.Fatalf("active_days = %d, want 1", report.PersonalEngagement.ActiveDays)
	}
}

func TestInactiveDayGapCounting(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "dana", Timestamp: "2024-01-01 09:00:00"},
		{ID: "m2", Sender: "dana", Timestamp: "2024-01-04 09:00:00"},
		{ID: "m3", Sender: "dana", Timestamp: "2024-01-10 09:00:00"},
	}

	report := ComputeStudentAnalytics(messages, nil, nil, nil, nil, "dana")
	pi := report.ProgressIndicators
	if pi.DateSpanDays != 9 {
		t.Fatalf("date_span_days = %d, want 9", pi.DateSpanDays)
	}
	// Gaps: 2 days between Jan 1 and 4, 5 days between Jan 4 and 10.
	if pi.InactiveDays != 7 {
		t.Fatalf("inactive_days = %d, want 7", pi.InactiveDays)
	}
	if pi.LongestGapDays != 5 {
		t.Fatalf("longest_gap_days = %d, want 5", pi.LongestGapDays)
	}
	// Span-ratio definition stays independent: 100 * 3 / 10.
	if pi.ConsistencyScore != 30.0 {
		t.Fatalf("consistency_score = %v, want 30.0", pi.ConsistencyScore)
	}
}

func TestLearningBehaviorCounts(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "dana", FileURL: "notes.pdf"},
		{ID: "m2", Sender: "dana", Content: "plain"},
		{ID: "p1", Sender: "mr_smith", Role: "teacher", IsPoll: true},
		{ID: "p2", Sender: "mr_smith", Role: "teacher", IsPoll: true},
	}
	votes := []VoteRecord{
		{Username: "dana", Kind: "up", ContentID: "p1"},
	}
	pollVotes := []PollVoteRecord{
		{Username: "dana", PollID: "p1", Option: "a"},
	}
	bookmarks := []BookmarkRecord{
		{Username: "dana", QuestionID: "p1"},
		{Username: "other", QuestionID: "p1"},
	}

	report := ComputeStudentAnalytics(messages, nil, votes, pollVotes, bookmarks, "dana")
	lb := report.LearningBehavior
	if lb.ResourceEngagement != 1 {
		t.Fatalf("resource_engagement = %d, want 1", lb.ResourceEngagement)
	}
	if lb.BookmarkCount != 1 {
		t.Fatalf("bookmark_count = %d, want 1", lb.BookmarkCount)
	}
	// 100 * 1 poll vote / 2 polls.
	if lb.PollParticipationRate != 50.0 {
		t.Fatalf("poll_participation_rate = %v, want 50.0", lb.PollParticipationRate)
	}
	// (1 vote + 1 bookmark) / 2 authored.
	if lb.ReadingWritingRatio != 1.0 {
		t.Fatalf("reading_writing_ratio = %v, want 1.0", lb.ReadingWritingRatio)
	}
}

func TestStudentReportIdempotent(t *testing.T) {
	messages, replies := aliceScenario()
	votes := []VoteRecord{{Username: "alice", Kind: "up", ContentID: "b0"}}
	bookmarks := []BookmarkRecord{{Username: "alice", QuestionID: "b1"}}

	first, err := json.Marshal(ComputeStudentAnalytics(messages, replies, votes, nil, bookmarks, "alice"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(ComputeStudentAnalytics(messages, replies, votes, nil, bookmarks, "alice"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("reports differ across identical invocations")
	}
}
