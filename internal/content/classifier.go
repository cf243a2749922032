package content

import (
	"strings"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
)

// Classifier assigns a category to unlabeled content text using a fixed,
// ordered set of keyword-substring rules. First match wins; unmatched text
// gets the class default. Classification is deterministic.
type Classifier struct {
	rules    []keywordRule
	fallback types.ContentCategory
}

type keywordRule struct {
	keywords []string
	category types.ContentCategory
}

func NewClassifier(class types.ContentClass) *Classifier {
	switch class {
	case types.ClassQuestion:
		return &Classifier{
			rules: []keywordRule{
				{[]string{"remember", "childhood", "grew up", "used to", "memory", "back then"}, types.CategoryMemory},
				{[]string{"today", "this morning", "tonight", "this evening", "right now"}, types.CategoryDaily},
				{[]string{"future", "someday", "hope", "dream", "next year", "plan to", "will you"}, types.CategoryFuture},
				{[]string{"grateful", "thankful", "appreciate", "blessing", "thank"}, types.CategoryGratitude},
			},
			fallback: types.CategoryGeneral,
		}
	case types.ClassTodo:
		return &Classifier{
			rules: []keywordRule{
				{[]string{"trip", "travel", "visit", "road", "journey", "explore", "park"}, types.CategoryTravel},
				{[]string{"game", "cook", "build", "play", "picnic", "garden", "bake"}, types.CategoryActivity},
				{[]string{"concert", "festival", "show", "museum", "theater", "watch", "attend"}, types.CategoryExperience},
				{[]string{"collect", "craft", "paint", "photo", "hobby", "origami"}, types.CategoryHobby},
				{[]string{"learn", "class", "course", "language", "read", "teach"}, types.CategoryLearning},
			},
			fallback: types.CategoryBonding,
		}
	default:
		return &Classifier{fallback: types.CategoryGeneral}
	}
}

func (cl *Classifier) Classify(text string) types.ContentCategory {
	lowered := strings.ToLower(text)
	for _, rule := range cl.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category
			}
		}
	}
	return cl.fallback
}
