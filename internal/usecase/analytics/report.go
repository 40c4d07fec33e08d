package analytics

// RoomReport is the room-level analytics output. Produced fresh per
// invocation and never mutated after return.
type RoomReport struct {
	MessageMetrics    RoomMessageMetrics    `json:"message_metrics"`
	UserEngagement    RoomUserEngagement    `json:"user_engagement"`
	TemporalAnalysis  TemporalAnalysis      `json:"temporal_analysis"`
	Polls             RoomPollMetrics       `json:"polls"`
	EngagementQuality RoomEngagementQuality `json:"engagement_quality"`
}

// RoomMessageMetrics covers message volume and content shape for a hub.
type RoomMessageMetrics struct {
	TotalMessages        int            `json:"total_messages"`
	TotalReplies         int            `json:"total_replies"`
	MessageReplyRatio    float64        `json:"message_reply_ratio"`
	ContentTypes         map[string]int `json:"content_types"`
	AverageMessageLength float64        `json:"average_message_length"`
	QuestionRate         float64        `json:"question_rate"`
}

// ContributorCount is one entry in the top-contributor ranking.
type ContributorCount struct {
	Username      string `json:"username"`
	Contributions int    `json:"contributions"`
}

// RankedContent is one entry in the top-content ranking.
type RankedContent struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Kind      string `json:"kind"` // "message" or "reply"
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	NetVotes  int    `json:"net_votes"`
}

// RoomUserEngagement covers who participates in a hub.
type RoomUserEngagement struct {
	ActiveUsers             int                `json:"active_users"`
	MemberCount             int                `json:"member_count"`
	ParticipationPercentage float64            `json:"participation_percentage"`
	TopContributors         []ContributorCount `json:"top_contributors"`
	TopContent              []RankedContent    `json:"top_content"`
}

// TemporalAnalysis covers when activity happens. AverageResponseTimeMinutes is
// nil when no message/earliest-reply pair could be computed.
type TemporalAnalysis struct {
	HourlyActivity             []BucketCount `json:"hourly_activity"`
	DailyActivity              []BucketCount `json:"daily_activity"`
	AverageResponseTimeMinutes *float64      `json:"average_response_time_minutes"`
	ActiveDays                 int           `json:"active_days"`
}

// RoomPollMetrics covers poll usage in a hub.
type RoomPollMetrics struct {
	TotalPolls          int     `json:"total_polls"`
	TotalPollVotes      int     `json:"total_poll_votes"`
	AverageVotesPerPoll float64 `json:"average_votes_per_poll"`
}

// RoomEngagementQuality covers how much posted content gets responded to.
type RoomEngagementQuality struct {
	ResponseRate   float64 `json:"response_rate"`
	TotalUpvotes   int     `json:"total_upvotes"`
	TotalDownvotes int     `json:"total_downvotes"`
	NetVotes       int     `json:"net_votes"`
}

// StudentReport is the per-student analytics output.
type StudentReport struct {
	PersonalEngagement PersonalEngagement `json:"personal_engagement"`
	ActivityTracking   ActivityTracking   `json:"activity_tracking"`
	ContentAnalytics   ContentAnalytics   `json:"content_analytics"`
	SocialInteraction  SocialInteraction  `json:"social_interaction"`
	LearningBehavior   LearningBehavior   `json:"learning_behavior"`
	ProgressIndicators ProgressIndicators `json:"progress_indicators"`
	ActionableInsights []Insight          `json:"actionable_insights"`
	RoomTotals         RoomTotals         `json:"room_totals"`
}

// PersonalEngagement covers the student's contribution volume.
type PersonalEngagement struct {
	MessagesPosted          int     `json:"messages_posted"`
	RepliesPosted           int     `json:"replies_posted"`
	TotalContributions      int     `json:"total_contributions"`
	MessageReplyRatio       float64 `json:"message_reply_ratio"`
	ParticipationPercentage float64 `json:"participation_percentage"`
	ActiveDays              int     `json:"active_days"`
}

// ActivityTracking covers when the student is active.
type ActivityTracking struct {
	HourlyActivity             []BucketCount `json:"hourly_activity"`
	DailyActivity              []BucketCount `json:"daily_activity"`
	AverageResponseTimeMinutes *float64      `json:"average_response_time_minutes"`
}

// ContentAnalytics covers the shape of the student's own messages.
type ContentAnalytics struct {
	ContentTypes         map[string]int `json:"content_types"`
	AverageMessageLength float64        `json:"average_message_length"`
	QuestionRate         float64        `json:"question_rate"`
}

// SocialInteraction covers votes and teacher interaction.
type SocialInteraction struct {
	ResponseRate           float64 `json:"response_rate"`
	UpvotesGiven           int     `json:"upvotes_given"`
	DownvotesGiven         int     `json:"downvotes_given"`
	UpvotesReceived        int     `json:"upvotes_received"`
	DownvotesReceived      int     `json:"downvotes_received"`
	NetContributionScore   int     `json:"net_contribution_score"`
	TeacherInteractionRate float64 `json:"teacher_interaction_rate"`
}

// LearningBehavior covers resource, poll and bookmark habits.
type LearningBehavior struct {
	ResourceEngagement    int     `json:"resource_engagement"`
	BookmarkCount         int     `json:"bookmark_count"`
	PollParticipationRate float64 `json:"poll_participation_rate"`
	ReadingWritingRatio   float64 `json:"reading_writing_ratio"`
}

// TrendLine is an ordinary least-squares fit over the per-day activity
// histogram. Slope and intercept are in the (seconds-since-first-date, count)
// space; DailyChange approximates the per-day rate as slope * 86400.
type TrendLine struct {
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	Direction   string  `json:"direction"` // "increasing", "decreasing" or "stable"
	DailyChange float64 `json:"daily_change"`
}

// ProgressIndicators covers activity over time. Trend is nil with fewer than
// two distinct active dates. InactiveDays (gap counting) and ConsistencyScore
// (span ratio) deliberately use different day-count definitions.
type ProgressIndicators struct {
	Trend            *TrendLine `json:"trend,omitempty"`
	ConsistencyScore float64    `json:"consistency_score"`
	DateSpanDays     int        `json:"date_span_days"`
	InactiveDays     int        `json:"inactive_days"`
	LongestGapDays   int        `json:"longest_gap_days"`
}

// Insight is a threshold-triggered coaching suggestion.
type Insight struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Importance string `json:"importance"` // "high", "medium" or "low"
	Action     string `json:"action"`
}

// RoomTotals echoes the room-wide counts the student metrics were computed
// against.
type RoomTotals struct {
	TotalMessages   int `json:"total_messages"`
	TotalReplies    int `json:"total_replies"`
	TotalPolls      int `json:"total_polls"`
	TeacherMessages int `json:"teacher_messages"`
}
