package domain

import (
	"github.com/kinfolkhq/kinfolk-backend/internal/domain/content"
)

type (
	ContentClass         = content.Class
	ContentCategory      = content.Category
	ContentOrigin        = content.Origin
	ContentRecord        = content.ContentRecord
	ConsumerHistoryEntry = content.ConsumerHistoryEntry
)

const (
	ClassQuestion = content.ClassQuestion
	ClassTodo     = content.ClassTodo

	CategoryMemory    = content.CategoryMemory
	CategoryDaily     = content.CategoryDaily
	CategoryFuture    = content.CategoryFuture
	CategoryGratitude = content.CategoryGratitude
	CategoryGeneral   = content.CategoryGeneral

	CategoryTravel     = content.CategoryTravel
	CategoryActivity   = content.CategoryActivity
	CategoryExperience = content.CategoryExperience
	CategoryHobby      = content.CategoryHobby
	CategoryLearning   = content.CategoryLearning
	CategoryBonding    = content.CategoryBonding

	OriginPool      = content.OriginPool
	OriginGenerated = content.OriginGenerated
	OriginFallback  = content.OriginFallback
)

// ParseContentCategory resolves a raw category string within a class.
func ParseContentCategory(class ContentClass, s string) (ContentCategory, bool) {
	return content.ParseCategory(class, s)
}
