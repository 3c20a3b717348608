package models

// Request bodies. Field order and names are the wire contract.

// MoodEntry is the body of POST /mood. Mood is 1..5.
type MoodEntry struct {
	Mood     int    `json:"mood"`
	Note     string `json:"note,omitempty"`
	DeviceID string `json:"deviceId"`
}

// JournalEntry is the body of POST /journal. A nil TimeCapsuleAt is sent as null.
type JournalEntry struct {
	Content       string   `json:"content"`
	TimeCapsuleAt *Date    `json:"timeCapsuleAt"`
	Tags          []string `json:"tags,omitempty"`
	DeviceID      string   `json:"deviceId"`
}

type NewForumPost struct {
	UserID       string `json:"user_id"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	CategorySlug string `json:"category_slug"`
	IsAnonymous  bool   `json:"is_anonymous"`
}

type NewForumComment struct {
	UserID      string `json:"user_id"`
	Body        string `json:"body"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type Vote struct {
	UserID string `json:"user_id"`
	Value  int    `json:"value"`
}

type Report struct {
	PostID ID     `json:"post_id"`
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// Decoded responses. Pointer fields are optional.

type MoodItem struct {
	ID        ID        `json:"id"`
	Mood      int       `json:"mood"`
	Note      *string   `json:"note,omitempty"`
	DeviceID  string    `json:"device_id,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

type MoodList struct {
	Items []MoodItem `json:"items"`
}

type JournalItem struct {
	ID            ID         `json:"id"`
	Content       string     `json:"content"`
	CreatedAt     Timestamp  `json:"created_at"`
	TimeCapsuleAt *Timestamp `json:"time_capsule_at,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Reflection    *string    `json:"reflection,omitempty"`
}

type JournalList struct {
	Items []JournalItem `json:"items"`
}

type ForumPost struct {
	ID           ID        `json:"id"`
	UserID       *string   `json:"user_id,omitempty"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CategorySlug string    `json:"category_slug"`
	IsAnonymous  bool      `json:"is_anonymous"`
	Score        int       `json:"score"`
	CreatedAt    Timestamp `json:"created_at"`
}

type ForumComment struct {
	ID          ID        `json:"id"`
	PostID      ID        `json:"post_id,omitempty"`
	Body        string    `json:"body"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Thread is a post with its comments. A nil Post means not found.
type Thread struct {
	Post     *ForumPost     `json:"post"`
	Comments []ForumComment `json:"comments"`
}

type ThreadSummary struct {
	Summary *string `json:"summary"`
}

// PersonalizedChatRequest is the body of POST /chat/personalized. A nil
// ConversationHistory is sent as an empty array.
type PersonalizedChatRequest struct {
	Text                string `json:"text"`
	Persona             any    `json:"persona"`
	ConversationHistory []any  `json:"conversationHistory"`
	UserProgress        any    `json:"userProgress,omitempty"`
}

// FlowStepRequest is the body of POST /therapeutic-flow.
type FlowStepRequest struct {
	FlowID       string `json:"flowId"`
	StepID       string `json:"stepId"`
	UserResponse string `json:"userResponse,omitempty"`
	Persona      any    `json:"persona,omitempty"`
}
