package analytics

import (
	"sort"
	"strings"
	"time"
)

// ComputeStudentAnalytics aggregates one student's engagement metrics from the
// full hub snapshots plus the student's vote, poll-vote and bookmark events.
// Pure and total like ComputeRoomAnalytics: no input is mutated and no
// well-formed input, however empty, produces an error.
func ComputeStudentAnalytics(
	messages []MessageRecord,
	replies []ReplyRecord,
	votes []VoteRecord,
	pollVotes []PollVoteRecord,
	bookmarks []BookmarkRecord,
	username string,
) StudentReport {
	own := ownContributions(messages, replies, username)

	var report StudentReport
	report.PersonalEngagement = personalEngagement(own, len(messages)+len(replies))
	report.ActivityTracking = activityTracking(own, replies)
	report.ContentAnalytics = contentAnalytics(own.messages)
	report.SocialInteraction = socialInteraction(own, messages, replies, votes, username)
	report.LearningBehavior = learningBehavior(own, messages, votes, pollVotes, bookmarks, username)
	report.ProgressIndicators = progressIndicators(own)
	report.RoomTotals = roomTotals(messages, replies)
	report.ActionableInsights = buildInsights(&report)

	return report
}

// contributions holds one student's slice of the hub snapshots along with the
// daily activity histogram every temporal pass reads.
type contributions struct {
	username string
	messages []MessageRecord
	replies  []ReplyRecord
	hourly   map[string]int
	daily    map[string]int
}

func ownContributions(messages []MessageRecord, replies []ReplyRecord, username string) contributions {
	own := contributions{
		username: username,
		hourly:   map[string]int{},
		daily:    map[string]int{},
	}

	for _, m := range messages {
		if m.Sender != username {
			continue
		}
		own.messages = append(own.messages, m)
		if t, ok := ParseTimestamp(m.Timestamp); ok {
			own.hourly[hourKey(t)]++
			own.daily[dateKey(t)]++
		}
	}
	for _, r := range replies {
		if r.Sender != username {
			continue
		}
		own.replies = append(own.replies, r)
		if t, ok := ParseTimestamp(r.Timestamp); ok {
			own.hourly[hourKey(t)]++
			own.daily[dateKey(t)]++
		}
	}

	return own
}

func personalEngagement(own contributions, totalContributions int) PersonalEngagement {
	posted := len(own.messages)
	replied := len(own.replies)

	return PersonalEngagement{
		MessagesPosted:          posted,
		RepliesPosted:           replied,
		TotalContributions:      posted + replied,
		MessageReplyRatio:       round2(float64(posted) / atLeastOne(replied)),
		ParticipationPercentage: round2(100 * float64(posted+replied) / atLeastOne(totalContributions)),
		ActiveDays:              len(own.daily),
	}
}

func activityTracking(own contributions, allReplies []ReplyRecord) ActivityTracking {
	return ActivityTracking{
		HourlyActivity:             sortedBuckets(own.hourly),
		DailyActivity:              sortedBuckets(own.daily),
		AverageResponseTimeMinutes: averageResponseTime(own.messages, allReplies),
	}
}

func contentAnalytics(ownMessages []MessageRecord) ContentAnalytics {
	types := map[string]int{}
	textChars := 0
	textCount := 0
	questions := 0

	for _, m := range ownMessages {
		types[classifyContent(m)]++
		if m.Content != "" {
			textChars += len([]rune(m.Content))
			textCount++
		}
		if strings.Contains(m.Content, "?") {
			questions++
		}
	}

	return ContentAnalytics{
		ContentTypes:         types,
		AverageMessageLength: round2(float64(textChars) / atLeastOne(textCount)),
		QuestionRate:         round2(100 * float64(questions) / atLeastOne(len(ownMessages))),
	}
}

func socialInteraction(own contributions, messages []MessageRecord, replies []ReplyRecord, votes []VoteRecord, username string) SocialInteraction {
	answered := 0
	for _, m := range own.messages {
		if hasReply(m.ID, replies) {
			answered++
		}
	}

	upGiven, downGiven := 0, 0
	for _, v := range votes {
		if v.Username != username {
			continue
		}
		switch v.Kind {
		case "up":
			upGiven++
		case "down":
			downGiven++
		}
	}

	upReceived, downReceived := 0, 0
	for _, m := range own.messages {
		upReceived += m.Upvotes
		downReceived += m.Downvotes
	}
	for _, r := range own.replies {
		upReceived += r.Upvotes
		downReceived += r.Downvotes
	}

	return SocialInteraction{
		ResponseRate:           round2(100 * float64(answered) / atLeastOne(len(own.messages))),
		UpvotesGiven:           upGiven,
		DownvotesGiven:         downGiven,
		UpvotesReceived:        upReceived,
		DownvotesReceived:      downReceived,
		NetContributionScore:   upReceived - downReceived,
		TeacherInteractionRate: teacherInteractionRate(own, messages, replies, username),
	}
}

// teacherInteractionRate counts two disjoint event types into one numerator:
// teacher messages the student replied to, and teacher replies landing on the
// student's own messages. The denominator is the teacher message count,
// floored at one.
func teacherInteractionRate(own contributions, messages []MessageRecord, replies []ReplyRecord, username string) float64 {
	teacherMessages := map[string]bool{}
	teacherMessageCount := 0
	for _, m := range messages {
		if m.Role == "teacher" {
			teacherMessages[m.ID] = true
			teacherMessageCount++
		}
	}

	ownMessages := map[string]bool{}
	for _, m := range own.messages {
		ownMessages[m.ID] = true
	}

	repliedToTeacher := map[string]bool{}
	teacherRepliesToOwn := 0
	for _, r := range replies {
		if r.Sender == username && teacherMessages[r.QuestionID] {
			repliedToTeacher[r.QuestionID] = true
		}
		if r.Role == "teacher" && ownMessages[r.QuestionID] {
			teacherRepliesToOwn++
		}
	}

	interactions := len(repliedToTeacher) + teacherRepliesToOwn
	return round2(100 * float64(interactions) / atLeastOne(teacherMessageCount))
}

func learningBehavior(own contributions, messages []MessageRecord, votes []VoteRecord, pollVotes []PollVoteRecord, bookmarks []BookmarkRecord, username string) LearningBehavior {
	resources := 0
	for _, m := range own.messages {
		if m.FileURL != "" {
			resources++
		}
	}

	totalPolls := 0
	for _, m := range messages {
		if m.IsPoll {
			totalPolls++
		}
	}

	// Ballots are not deduplicated: repeat votes on the same poll inflate the
	// participation rate, matching how the counts are recorded.
	ownPollVotes := 0
	for _, pv := range pollVotes {
		if pv.Username == username {
			ownPollVotes++
		}
	}

	ownVotes := 0
	for _, v := range votes {
		if v.Username == username {
			ownVotes++
		}
	}

	ownBookmarks := 0
	for _, b := range bookmarks {
		if b.Username == username {
			ownBookmarks++
		}
	}

	authored := len(own.messages) + len(own.replies)

	return LearningBehavior{
		ResourceEngagement:    resources,
		BookmarkCount:         ownBookmarks,
		PollParticipationRate: round2(100 * float64(ownPollVotes) / atLeastOne(totalPolls)),
		ReadingWritingRatio:   round2(float64(ownVotes+ownBookmarks) / atLeastOne(authored)),
	}
}

func progressIndicators(own contributions) ProgressIndicators {
	dates := make([]time.Time, 0, len(own.daily))
	for key := range own.daily {
		if d, err := time.Parse(dateLayout, key); err == nil {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var indicators ProgressIndicators
	if len(dates) == 0 {
		return indicators
	}

	first := dates[0]
	last := dates[len(dates)-1]
	spanDays := int(last.Sub(first).Hours() / 24)

	indicators.DateSpanDays = spanDays
	indicators.ConsistencyScore = round2(100 * float64(len(dates)) / atLeastOne(spanDays+1))

	// Gap counting: days inside the span with no activity, and the longest
	// run of them. Kept separate from the span-ratio consistency score.
	for i := 1; i < len(dates); i++ {
		gap := int(dates[i].Sub(dates[i-1]).Hours()/24) - 1
		if gap > 0 {
			indicators.InactiveDays += gap
			if gap > indicators.LongestGapDays {
				indicators.LongestGapDays = gap
			}
		}
	}

	indicators.Trend = fitTrend(dates, own.daily)
	return indicators
}

// fitTrend fits an ordinary least-squares line over (seconds since first
// active date, activity count). Returns nil with fewer than two distinct
// dates.
func fitTrend(dates []time.Time, daily map[string]int) *TrendLine {
	if len(dates) < 2 {
		return nil
	}

	first := dates[0]
	n := float64(len(dates))
	var sumX, sumY, sumXY, sumXX float64
	for _, d := range dates {
		x := d.Sub(first).Seconds()
		y := float64(daily[d.Format(dateLayout)])
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	direction := "stable"
	if slope > 0.01 {
		direction = "increasing"
	} else if slope < -0.01 {
		direction = "decreasing"
	}

	return &TrendLine{
		Slope:       slope,
		Intercept:   intercept,
		Direction:   direction,
		DailyChange: round2(slope * 86400),
	}
}

func roomTotals(messages []MessageRecord, replies []ReplyRecord) RoomTotals {
	totals := RoomTotals{
		TotalMessages: len(messages),
		TotalReplies:  len(replies),
	}
	for _, m := range messages {
		if m.IsPoll {
			totals.TotalPolls++
		}
		if m.Role == "teacher" {
			totals.TeacherMessages++
		}
	}
	return totals
}
