package analytics

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMessageReplyRatioFlooredDenominator(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "alice", Content: "one"},
		{ID: "m2", Sender: "alice", Content: "two"},
		{ID: "m3", Sender: "bob", Content: "three"},
	}

	report := ComputeRoomAnalytics(messages, nil, 10)
	if report.MessageMetrics.MessageReplyRatio != 3.0 {
		t.Fatalf("message_reply_ratio = %v, want 3.0", report.MessageMetrics.MessageReplyRatio)
	}
}

func TestEmptyInputsYieldZeroedFiniteReport(t *testing.T) {
	report := ComputeRoomAnalytics(nil, nil, 0)

	if report.MessageMetrics.TotalMessages != 0 || report.MessageMetrics.TotalReplies != 0 {
		t.Fatalf("expected zero counts, got %+v", report.MessageMetrics)
	}
	if report.TemporalAnalysis.AverageResponseTimeMinutes != nil {
		t.Fatalf("expected nil average response time for empty input")
	}

	for name, v := range map[string]float64{
		"message_reply_ratio":      report.MessageMetrics.MessageReplyRatio,
		"average_message_length":   report.MessageMetrics.AverageMessageLength,
		"question_rate":            report.MessageMetrics.QuestionRate,
		"participation_percentage": report.UserEngagement.ParticipationPercentage,
		"average_votes_per_poll":   report.Polls.AverageVotesPerPoll,
		"response_rate":            report.EngagementQuality.ResponseRate,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, want finite", name, v)
		}
		if v != 0 {
			t.Errorf("%s = %v, want 0", name, v)
		}
	}
}

func TestContentClassificationPriority(t *testing.T) {
	cases := []struct {
		name string
		msg  MessageRecord
		want string
	}{
		{"poll beats file", MessageRecord{IsPoll: true, FileURL: "f.pdf"}, "poll"},
		{"poll beats everything", MessageRecord{IsPoll: true, ImageURL: "i.png", FileURL: "f.pdf", VideoURL: "v.mp4"}, "poll"},
		{"image beats file", MessageRecord{ImageURL: "i.png", FileURL: "f.pdf"}, "image"},
		{"file beats video", MessageRecord{FileURL: "f.pdf", VideoURL: "v.mp4"}, "file"},
		{"video", MessageRecord{VideoURL: "v.mp4"}, "video"},
		{"plain text", MessageRecord{Content: "hi"}, "text"},
		{"empty still text", MessageRecord{}, "text"},
	}

	for _, tc := range cases {
		if got := classifyContent(tc.msg); got != tc.want {
			t.Errorf("%s: classified as %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDanglingReplyTolerated(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "alice", Timestamp: "2024-03-01 10:00:00", Content: "q"},
	}
	replies := []ReplyRecord{
		{ID: "r1", QuestionID: "missing", Sender: "bob", Timestamp: "2024-03-01 10:05:00", Content: "a"},
	}

	report := ComputeRoomAnalytics(messages, replies, 5)
	if report.EngagementQuality.ResponseRate != 0 {
		t.Fatalf("response_rate = %v, want 0 (dangling reply must not pair)", report.EngagementQuality.ResponseRate)
	}
	if report.TemporalAnalysis.AverageResponseTimeMinutes != nil {
		t.Fatalf("expected nil response time, dangling reply must be excluded from pairing")
	}
	// Still counted in raw totals.
	if report.MessageMetrics.TotalReplies != 1 {
		t.Fatalf("total_replies = %d, want 1", report.MessageMetrics.TotalReplies)
	}
}

func TestAverageResponseTimeEarliestReplyWins(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "alice", Timestamp: "2024-03-01 10:00:00", Content: "q1"},
		{ID: "m2", Sender: "alice", Timestamp: "2024-03-01 11:00:00", Content: "q2"},
	}
	replies := []ReplyRecord{
		{ID: "r1", QuestionID: "m1", Sender: "bob", Timestamp: "2024-03-01 10:30:00"},
		{ID: "r2", QuestionID: "m1", Sender: "carol", Timestamp: "2024-03-01 10:10:00"},
		// Malformed reply timestamp: m2 has no computable pair.
		{ID: "r3", QuestionID: "m2", Sender: "bob", Timestamp: "yesterday-ish"},
	}

	report := ComputeRoomAnalytics(messages, replies, 5)
	got := report.TemporalAnalysis.AverageResponseTimeMinutes
	if got == nil {
		t.Fatal("expected a response time average")
	}
	if *got != 10.0 {
		t.Fatalf("average_response_time_minutes = %v, want 10.0", *got)
	}
	// m2 still counts as answered even though its pair was not computable.
	if report.EngagementQuality.ResponseRate != 100.0 {
		t.Fatalf("response_rate = %v, want 100.0", report.EngagementQuality.ResponseRate)
	}
}

func TestTopContentRanking(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "alice", Upvotes: 10, Downvotes: 1},
		{ID: "m2", Sender: "bob", Upvotes: 2, Downvotes: 5},
		{ID: "m3", Sender: "carol", Upvotes: 4},
	}
	replies := []ReplyRecord{
		{ID: "r1", QuestionID: "m1", Sender: "dave", Upvotes: 7},
		{ID: "r2", QuestionID: "m1", Sender: "erin", Upvotes: 1},
		{ID: "r3", QuestionID: "m2", Sender: "frank", Upvotes: 3, Downvotes: 3},
	}

	report := ComputeRoomAnalytics(messages, replies, 10)
	top := report.UserEngagement.TopContent
	if len(top) != 5 {
		t.Fatalf("top content length = %d, want 5", len(top))
	}
	wantOrder := []string{"m1", "r1", "m3", "r2", "r3"}
	for i, want := range wantOrder {
		if top[i].ID != want {
			t.Errorf("top[%d] = %s (net %d), want %s", i, top[i].ID, top[i].NetVotes, want)
		}
	}
}

func TestHourlyAndDailyBucketsSorted(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "a", Timestamp: "2024-03-02 23:00:00"},
		{ID: "m2", Sender: "a", Timestamp: "2024-03-01 04:00:00"},
		{ID: "m3", Sender: "a", Timestamp: "2024-03-01 23:30:00"},
		{ID: "m4", Sender: "a", Timestamp: "not a time"},
	}

	report := ComputeRoomAnalytics(messages, nil, 3)
	hourly := report.TemporalAnalysis.HourlyActivity
	if len(hourly) != 2 {
		t.Fatalf("hourly buckets = %d, want 2", len(hourly))
	}
	if hourly[0].Bucket != "04" || hourly[0].Count != 1 {
		t.Fatalf("hourly[0] = %+v, want {04 1}", hourly[0])
	}
	if hourly[1].Bucket != "23" || hourly[1].Count != 2 {
		t.Fatalf("hourly[1] = %+v, want {23 2}", hourly[1])
	}

	daily := report.TemporalAnalysis.DailyActivity
	if len(daily) != 2 || daily[0].Bucket != "2024-03-01" || daily[0].Count != 2 {
		t.Fatalf("daily buckets = %+v, want 2024-03-01 first with count 2", daily)
	}
	if report.TemporalAnalysis.ActiveDays != 2 {
		t.Fatalf("active_days = %d, want 2 (malformed timestamp excluded)", report.TemporalAnalysis.ActiveDays)
	}
}

func TestPollMetrics(t *testing.T) {
	messages := []MessageRecord{
		{ID: "p1", Sender: "t", IsPoll: true, PollOptions: []PollOption{{Label: "a", Votes: 3}, {Label: "b", Votes: 1}}},
		{ID: "p2", Sender: "t", IsPoll: true, PollOptions: []PollOption{{Label: "yes", Votes: 2}}},
		{ID: "m1", Sender: "t", Content: "not a poll"},
	}

	report := ComputeRoomAnalytics(messages, nil, 10)
	if report.Polls.TotalPolls != 2 {
		t.Fatalf("total_polls = %d, want 2", report.Polls.TotalPolls)
	}
	if report.Polls.TotalPollVotes != 6 {
		t.Fatalf("total_poll_votes = %d, want 6", report.Polls.TotalPollVotes)
	}
	if report.Polls.AverageVotesPerPoll != 3.0 {
		t.Fatalf("average_votes_per_poll = %v, want 3.0", report.Polls.AverageVotesPerPoll)
	}
}

func TestRoomReportIdempotent(t *testing.T) {
	messages := []MessageRecord{
		{ID: "m1", Sender: "alice", Role: "student", Timestamp: "2024-03-01 09:00:00", Content: "why?", Upvotes: 2},
		{ID: "m2", Sender: "bob", Role: "teacher", Timestamp: "2024-03-02 10:00:00", IsPoll: true, PollOptions: []PollOption{{Label: "a", Votes: 4}}},
	}
	replies := []ReplyRecord{
		{ID: "r1", QuestionID: "m1", Sender: "bob", Role: "teacher", Timestamp: "2024-03-01 09:30:00", Content: "because", Upvotes: 1},
	}

	first, err := json.Marshal(ComputeRoomAnalytics(messages, replies, 7))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(ComputeRoomAnalytics(messages, replies, 7))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("reports differ across identical invocations:\n%s\n%s", first, second)
	}
}
