package content

import (
	"time"

	"github.com/google/uuid"
)

// Class partitions the two pooled content kinds. Each class carries its own
// pool TTL, reconciliation cadence, and category set.
type Class string

const (
	ClassQuestion Class = "question"
	ClassTodo     Class = "todo"
)

// Category is the sole partition key for pools and history.
type Category string

const (
	CategoryMemory    Category = "MEMORY"
	CategoryDaily     Category = "DAILY"
	CategoryFuture    Category = "FUTURE"
	CategoryGratitude Category = "GRATITUDE"
	CategoryGeneral   Category = "GENERAL"

	CategoryTravel     Category = "TRAVEL"
	CategoryActivity   Category = "ACTIVITY"
	CategoryExperience Category = "EXPERIENCE"
	CategoryHobby      Category = "HOBBY"
	CategoryLearning   Category = "LEARNING"
	CategoryBonding    Category = "BONDING"
)

var questionCategories = []Category{
	CategoryMemory,
	CategoryDaily,
	CategoryFuture,
	CategoryGratitude,
	CategoryGeneral,
}

var todoCategories = []Category{
	CategoryTravel,
	CategoryActivity,
	CategoryExperience,
	CategoryHobby,
	CategoryLearning,
	CategoryBonding,
}

func (c Class) Categories() []Category {
	switch c {
	case ClassQuestion:
		return questionCategories
	case ClassTodo:
		return todoCategories
	default:
		return nil
	}
}

// ParseCategory resolves s against the class's category set.
func ParseCategory(class Class, s string) (Category, bool) {
	for _, c := range class.Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Origin records which retrieval tier produced a piece of content.
type Origin string

const (
	OriginPool      Origin = "POOL"
	OriginGenerated Origin = "GENERATED"
	OriginFallback  Origin = "FALLBACK"
)

// ContentRecord is the durable record of one issued piece of content.
// Immutable after creation except UsageCount.
type ContentRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Class      Class     `gorm:"not null;column:class;index" json:"class"`
	Category   Category  `gorm:"not null;column:category;index" json:"category"`
	Text       string    `gorm:"not null;column:text" json:"text"`
	Origin     Origin    `gorm:"not null;column:origin" json:"origin"`
	UsageCount int       `gorm:"not null;default:0;column:usage_count" json:"usage_count"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (ContentRecord) TableName() string { return "content_record" }

// ConsumerHistoryEntry is the append-only per-consumer issuance ledger,
// used for duplicate avoidance and rate-limit accounting.
type ConsumerHistoryEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConsumerID string    `gorm:"not null;column:consumer_id;index:idx_history_consumer_issued" json:"consumer_id"`
	ContentID  uuid.UUID `gorm:"type:uuid;not null;column:content_id;index" json:"content_id"`
	Class      Class     `gorm:"not null;column:class" json:"class"`
	Category   Category  `gorm:"not null;column:category" json:"category"`
	IssuedAt   time.Time `gorm:"not null;column:issued_at;index:idx_history_consumer_issued" json:"issued_at"`
}

func (ConsumerHistoryEntry) TableName() string { return "consumer_history_entry" }
