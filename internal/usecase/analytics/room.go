package analytics

import (
	"sort"
	"strings"
)

// ComputeRoomAnalytics aggregates hub-wide engagement metrics from message and
// reply snapshots plus the hub's member count. It is a pure function: inputs
// are never mutated, identical inputs produce identical reports, and empty
// inputs yield a zeroed report rather than an error.
func ComputeRoomAnalytics(messages []MessageRecord, replies []ReplyRecord, memberCount int) RoomReport {
	var report RoomReport

	report.MessageMetrics = roomMessageMetrics(messages, replies)
	report.UserEngagement = roomUserEngagement(messages, replies, memberCount)
	report.TemporalAnalysis = temporalAnalysis(messages, replies)
	report.Polls = roomPollMetrics(messages)
	report.EngagementQuality = roomEngagementQuality(messages, replies)

	return report
}

func roomMessageMetrics(messages []MessageRecord, replies []ReplyRecord) RoomMessageMetrics {
	types := map[string]int{}
	textChars := 0
	textCount := 0
	questions := 0

	for _, m := range messages {
		types[classifyContent(m)]++
		if m.Content != "" {
			textChars += len([]rune(m.Content))
			textCount++
		}
		if strings.Contains(m.Content, "?") {
			questions++
		}
	}

	return RoomMessageMetrics{
		TotalMessages:        len(messages),
		TotalReplies:         len(replies),
		MessageReplyRatio:    round2(float64(len(messages)) / atLeastOne(len(replies))),
		ContentTypes:         types,
		AverageMessageLength: round2(float64(textChars) / atLeastOne(textCount)),
		QuestionRate:         round2(100 * float64(questions) / atLeastOne(len(messages))),
	}
}

func roomUserEngagement(messages []MessageRecord, replies []ReplyRecord, memberCount int) RoomUserEngagement {
	contributions := map[string]int{}
	for _, m := range messages {
		if m.Sender != "" {
			contributions[m.Sender]++
		}
	}
	for _, r := range replies {
		if r.Sender != "" {
			contributions[r.Sender]++
		}
	}

	return RoomUserEngagement{
		ActiveUsers:             len(contributions),
		MemberCount:             memberCount,
		ParticipationPercentage: round2(100 * float64(len(contributions)) / atLeastOne(memberCount)),
		TopContributors:         topContributors(contributions, 5),
		TopContent:              topContent(messages, replies, 5),
	}
}

// topContributors ranks senders by contribution count descending, ties broken
// by username so the ranking is deterministic.
func topContributors(contributions map[string]int, limit int) []ContributorCount {
	ranked := make([]ContributorCount, 0, len(contributions))
	for name, count := range contributions {
		ranked = append(ranked, ContributorCount{Username: name, Contributions: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Contributions != ranked[j].Contributions {
			return ranked[i].Contributions > ranked[j].Contributions
		}
		return ranked[i].Username < ranked[j].Username
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// topContent merges messages and replies into one list ranked by net votes
// descending and returns the first limit entries.
func topContent(messages []MessageRecord, replies []ReplyRecord, limit int) []RankedContent {
	merged := make([]RankedContent, 0, len(messages)+len(replies))
	for _, m := range messages {
		merged = append(merged, RankedContent{
			ID:        m.ID,
			Sender:    m.Sender,
			Kind:      "message",
			Upvotes:   m.Upvotes,
			Downvotes: m.Downvotes,
			NetVotes:  m.Upvotes - m.Downvotes,
		})
	}
	for _, r := range replies {
		merged = append(merged, RankedContent{
			ID:        r.ID,
			Sender:    r.Sender,
			Kind:      "reply",
			Upvotes:   r.Upvotes,
			Downvotes: r.Downvotes,
			NetVotes:  r.Upvotes - r.Downvotes,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].NetVotes > merged[j].NetVotes
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// temporalAnalysis buckets all parseable contribution timestamps by hour of
// day and calendar date. Records with malformed timestamps are skipped here
// but still counted in every non-temporal metric.
func temporalAnalysis(messages []MessageRecord, replies []ReplyRecord) TemporalAnalysis {
	hourly := map[string]int{}
	daily := map[string]int{}

	for _, m := range messages {
		if t, ok := ParseTimestamp(m.Timestamp); ok {
			hourly[hourKey(t)]++
			daily[dateKey(t)]++
		}
	}
	for _, r := range replies {
		if t, ok := ParseTimestamp(r.Timestamp); ok {
			hourly[hourKey(t)]++
			daily[dateKey(t)]++
		}
	}

	return TemporalAnalysis{
		HourlyActivity:             sortedBuckets(hourly),
		DailyActivity:              sortedBuckets(daily),
		AverageResponseTimeMinutes: averageResponseTime(messages, replies),
		ActiveDays:                 len(daily),
	}
}

// averageResponseTime returns the mean gap in minutes between each message and
// its earliest reply, over the pairs that could be computed, or nil if none
// qualify.
func averageResponseTime(messages []MessageRecord, replies []ReplyRecord) *float64 {
	total := 0.0
	pairs := 0
	for _, m := range messages {
		if gap, ok := earliestReplyGap(m, replies); ok {
			total += gap
			pairs++
		}
	}
	if pairs == 0 {
		return nil
	}
	avg := round2(total / float64(pairs))
	return &avg
}

func roomPollMetrics(messages []MessageRecord) RoomPollMetrics {
	polls := 0
	votes := 0
	for _, m := range messages {
		if !m.IsPoll {
			continue
		}
		polls++
		for _, opt := range m.PollOptions {
			votes += opt.Votes
		}
	}

	return RoomPollMetrics{
		TotalPolls:          polls,
		TotalPollVotes:      votes,
		AverageVotesPerPoll: round2(float64(votes) / atLeastOne(polls)),
	}
}

func roomEngagementQuality(messages []MessageRecord, replies []ReplyRecord) RoomEngagementQuality {
	answered := 0
	for _, m := range messages {
		if hasReply(m.ID, replies) {
			answered++
		}
	}

	up, down := 0, 0
	for _, m := range messages {
		up += m.Upvotes
		down += m.Downvotes
	}
	for _, r := range replies {
		up += r.Upvotes
		down += r.Downvotes
	}

	return RoomEngagementQuality{
		ResponseRate:   round2(100 * float64(answered) / atLeastOne(len(messages))),
		TotalUpvotes:   up,
		TotalDownvotes: down,
		NetVotes:       up - down,
	}
}

func hasReply(messageID string, replies []ReplyRecord) bool {
	for _, r := range replies {
		if r.QuestionID == messageID {
			return true
		}
	}
	return false
}
