package entities

// SpeakerShare is a speaker's portion of the spoken words
type SpeakerShare struct {
	Name       string `json:"name"`
	Words      int    `json:"words"`
	Percentage int    `json:"percentage"`
	IsCustomer bool   `json:"isCustomer"`
	Color      string `json:"color"`
}

// ContentBreakdown splits spoken words into small talk and business talk
type ContentBreakdown struct {
	SmallTalk      int `json:"smallTalk"`
	Business       int `json:"business"`
	SmallTalkWords int `json:"smallTalkWords"`
	BusinessWords  int `json:"businessWords"`
}

// DeepDive is the per-meeting analysis of one transcript
type DeepDive struct {
	SpeakerShares    []SpeakerShare   `json:"speakerShares"`
	ContentBreakdown ContentBreakdown `json:"contentBreakdown"`
	OpenQuestions    []string         `json:"openQuestions"`
	CustomerNeeds    []string         `json:"customerNeeds"`
}

// WeeklyBucket aggregates meetings starting in the same Monday-aligned week
type WeeklyBucket struct {
	Week    string `json:"week"`
	Count   int    `json:"count"`
	Minutes int    `json:"minutes"`
}

// AccountAnalytics is the account-level snapshot recomputed on every request
type AccountAnalytics struct {
	TotalMeetings              int              `json:"totalMeetings"`
	TotalDurationMinutes       int              `json:"totalDurationMinutes"`
	TotalActionItems           int              `json:"totalActionItems"`
	TotalKeyPoints             int              `json:"totalKeyPoints"`
	TotalParticipants          int              `json:"totalParticipants"`
	AverageDuration            int              `json:"averageDuration"`
	AggregatedSpeakerShares    []SpeakerShare   `json:"aggregatedSpeakerShares"`
	AggregatedContentBreakdown ContentBreakdown `json:"aggregatedContentBreakdown"`
	AggregatedOpenQuestions    []string         `json:"aggregatedOpenQuestions"`
	AggregatedCustomerNeeds    []string         `json:"aggregatedCustomerNeeds"`
	WeeklyData                 []WeeklyBucket   `json:"weeklyData"`
}
