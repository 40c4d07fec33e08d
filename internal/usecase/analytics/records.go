package analytics

import (
	"math"
	"sort"
	"time"
)

// timeLayout is the wall-clock format used for all record timestamps.
// No timezone, second precision.
const timeLayout = "2006-01-02 15:04:05"

// dateLayout is the calendar-date bucket key format.
const dateLayout = "2006-01-02"

// PollOption is one choice on a poll message with its running vote count.
type PollOption struct {
	Label string `json:"label"`
	Votes int    `json:"votes"`
}

// MessageRecord is a flat snapshot of a root post in a hub.
// Optional fields are zero-valued when absent; every metric defaults at the
// point of use rather than failing.
type MessageRecord struct {
	ID          string
	Sender      string
	Role        string // "student" or "teacher"
	Timestamp   string
	Content     string
	IsPoll      bool
	PollOptions []PollOption
	ImageURL    string
	FileURL     string
	VideoURL    string
	Upvotes     int
	Downvotes   int
}

// ReplyRecord is a flat snapshot of a reply to a message. QuestionID may
// reference a message that no longer exists; dangling references are tolerated.
type ReplyRecord struct {
	ID         string
	QuestionID string
	Sender     string
	Role       string
	Timestamp  string
	Content    string
	Upvotes    int
	Downvotes  int
}

// VoteRecord is a single up/down vote cast by a user.
type VoteRecord struct {
	Username  string
	Kind      string // "up" or "down"
	ContentID string
	Timestamp string
}

// PollVoteRecord is a single poll ballot cast by a user. Duplicate ballots are
// not deduplicated; repeated records inflate counts.
type PollVoteRecord struct {
	Username  string
	PollID    string
	Option    string
	Timestamp string
}

// BookmarkRecord is a user's saved reference to a message.
type BookmarkRecord struct {
	Username   string
	HubID      string
	QuestionID string
	Timestamp  string
}

// ParseTimestamp parses a record timestamp. The boolean is false for empty or
// malformed values; callers exclude such records from time-bucketed metrics
// only, never from raw counts.
func ParseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// round2 rounds to two decimal places. Applied to every percentage and ratio
// before it is placed in a report; counts stay integers.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// atLeastOne floors a ratio denominator at one so no ratio ever divides by
// zero and empty inputs degrade to zero rather than NaN.
func atLeastOne(n int) float64 {
	if n < 1 {
		return 1
	}
	return float64(n)
}

// BucketCount is one histogram bucket, keyed by zero-padded hour ("00".."23")
// or calendar date ("2006-01-02").
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// sortedBuckets converts a bucket map to a list sorted by key. Both bucket key
// formats sort lexicographically in chronological order.
func sortedBuckets(counts map[string]int) []BucketCount {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]BucketCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, BucketCount{Bucket: k, Count: counts[k]})
	}
	return out
}

// hourKey returns the zero-padded hour-of-day bucket key.
func hourKey(t time.Time) string {
	return t.Format("15")
}

// dateKey returns the calendar-date bucket key.
func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// classifyContent assigns a message to exactly one content class. The priority
// order (poll, image, file, video, text) is fixed: a poll carrying a file
// attachment still classifies as a poll.
func classifyContent(m MessageRecord) string {
	switch {
	case m.IsPoll:
		return "poll"
	case m.ImageURL != "":
		return "image"
	case m.FileURL != "":
		return "file"
	case m.VideoURL != "":
		return "video"
	default:
		return "text"
	}
}

// earliestReplyGap returns the gap in minutes between a message and its
// earliest parseable reply. ok is false when the message timestamp is
// malformed, the message has no replies, or none of its replies carry a
// parseable timestamp; such pairs are excluded from the average.
func earliestReplyGap(msg MessageRecord, replies []ReplyRecord) (float64, bool) {
	msgTime, ok := ParseTimestamp(msg.Timestamp)
	if !ok {
		return 0, false
	}

	var earliest time.Time
	found := false
	for _, r := range replies {
		if r.QuestionID != msg.ID {
			continue
		}
		t, ok := ParseTimestamp(r.Timestamp)
		if !ok {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return earliest.Sub(msgTime).Minutes(), true
}
