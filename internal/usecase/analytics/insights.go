package analytics

import (
	"fmt"
	"sort"
)

// Fixed thresholds for insight rules. These are tuned constants, not knobs:
// changing them changes report semantics for every hub.
const (
	participationCriticalPct = 5.0
	participationLowPct      = 15.0
	contentVarietyMinPosts   = 5
	readingHeavyRatio        = 3.0
	writingHeavyRatio        = 0.25
	writingHeavyMinPosts     = 5
	teacherRateLowPct        = 20.0
	teacherRateMinMessages   = 5
	pollRateLowPct           = 50.0
	pollRateMinPolls         = 3
	consistencyLowPct        = 30.0
	consistencyMinActiveDays = 3
	consistencyMinSpanDays   = 10
	questionMinCount         = 3
	questionResponseLowPct   = 30.0
	maxInsights              = 5
)

var importanceRank = map[string]int{"high": 0, "medium": 1, "low": 2}

// buildInsights evaluates the fixed rule set against a computed report and
// returns at most maxInsights suggestions ordered high, medium, low with
// stable order within each tier.
func buildInsights(r *StudentReport) []Insight {
	var insights []Insight

	// Rule 1: participation share of room activity.
	participation := r.PersonalEngagement.ParticipationPercentage
	if participation < participationCriticalPct {
		insights = append(insights, Insight{
			Type:       "participation",
			Message:    fmt.Sprintf("Contributions make up only %.2f%% of room activity", participation),
			Importance: "high",
			Action:     "Post a question or reply to a classmate this week",
		})
	} else if participation < participationLowPct {
		insights = append(insights, Insight{
			Type:       "participation",
			Message:    fmt.Sprintf("Contributions make up %.2f%% of room activity, below the class norm", participation),
			Importance: "medium",
			Action:     "Try contributing to one discussion per day",
		})
	}

	// Rule 2: a single content type across more than five messages.
	if r.PersonalEngagement.MessagesPosted > contentVarietyMinPosts && len(nonZeroTypes(r.ContentAnalytics.ContentTypes)) == 1 {
		only := nonZeroTypes(r.ContentAnalytics.ContentTypes)[0]
		insights = append(insights, Insight{
			Type:       "content_variety",
			Message:    fmt.Sprintf("All %d messages use the same content type (%s)", r.PersonalEngagement.MessagesPosted, only),
			Importance: "medium",
			Action:     "Mix in polls, images or file shares to vary the discussion",
		})
	}

	// Rule 3: reading/writing imbalance in either direction.
	rw := r.LearningBehavior.ReadingWritingRatio
	if rw > readingHeavyRatio {
		insights = append(insights, Insight{
			Type:       "balance",
			Message:    fmt.Sprintf("Reading/writing ratio is %.2f: mostly consuming, rarely posting", rw),
			Importance: "medium",
			Action:     "Turn one of the posts you voted on into a follow-up question",
		})
	} else if rw < writingHeavyRatio && r.PersonalEngagement.TotalContributions > writingHeavyMinPosts {
		insights = append(insights, Insight{
			Type:       "balance",
			Message:    fmt.Sprintf("Reading/writing ratio is %.2f: posting often but rarely engaging with others' content", rw),
			Importance: "low",
			Action:     "Vote on or bookmark classmates' posts you found useful",
		})
	}

	// Rule 4: low teacher interaction despite teacher presence.
	if r.RoomTotals.TeacherMessages >= teacherRateMinMessages && r.SocialInteraction.TeacherInteractionRate < teacherRateLowPct {
		insights = append(insights, Insight{
			Type:       "teacher_interaction",
			Message:    fmt.Sprintf("Interaction with teacher posts is %.2f%%", r.SocialInteraction.TeacherInteractionRate),
			Importance: "medium",
			Action:     "Reply to the teacher's most recent question",
		})
	}

	// Rule 5: polls exist but go unanswered.
	if r.RoomTotals.TotalPolls >= pollRateMinPolls && r.LearningBehavior.PollParticipationRate < pollRateLowPct {
		insights = append(insights, Insight{
			Type:       "poll_participation",
			Message:    fmt.Sprintf("Voted in %.2f%% of room polls", r.LearningBehavior.PollParticipationRate),
			Importance: "low",
			Action:     "Polls take seconds to answer and count toward participation",
		})
	}

	// Rule 6: activity clustered into bursts over a long span.
	if r.ProgressIndicators.ConsistencyScore < consistencyLowPct &&
		r.PersonalEngagement.ActiveDays > consistencyMinActiveDays &&
		r.ProgressIndicators.DateSpanDays > consistencyMinSpanDays {
		insights = append(insights, Insight{
			Type:       "consistency",
			Message:    fmt.Sprintf("Active on %d of %d days", r.PersonalEngagement.ActiveDays, r.ProgressIndicators.DateSpanDays+1),
			Importance: "medium",
			Action:     "Short daily check-ins beat occasional bursts",
		})
	}

	// Rule 7: questions asked but generating below-par engagement.
	questionCount := questionMessageCount(r)
	if questionCount >= questionMinCount && r.SocialInteraction.ResponseRate < questionResponseLowPct {
		insights = append(insights, Insight{
			Type:       "question_engagement",
			Message:    fmt.Sprintf("Only %.2f%% of posted questions received replies", r.SocialInteraction.ResponseRate),
			Importance: "low",
			Action:     "Add context or an example to questions to invite answers",
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return importanceRank[insights[i].Importance] < importanceRank[insights[j].Importance]
	})

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func nonZeroTypes(types map[string]int) []string {
	var out []string
	for name, count := range types {
		if count > 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// questionMessageCount approximates the number of question posts from the
// question rate and message count, avoiding a second pass over the snapshots.
func questionMessageCount(r *StudentReport) int {
	if r.PersonalEngagement.MessagesPosted == 0 {
		return 0
	}
	count := r.ContentAnalytics.QuestionRate * float64(r.PersonalEngagement.MessagesPosted) / 100
	return int(count + 0.5)
}
