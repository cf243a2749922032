package content

import (
	"math/rand"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
)

// StaticCorpus is the hand-authored, dependency-free fallback set. It is the
// reason total unavailability of content is effectively impossible: Sample
// never fails and is never empty for a valid category.
type StaticCorpus struct {
	byCategory map[types.ContentCategory][]string
}

func NewStaticCorpus() *StaticCorpus {
	return &StaticCorpus{byCategory: staticContent}
}

// Sample returns up to count distinct strings from the category's list,
// drawn randomly without replacement within the call.
func (sc *StaticCorpus) Sample(category types.ContentCategory, count int) []string {
	src := sc.byCategory[category]
	if len(src) == 0 || count <= 0 {
		return nil
	}
	if count > len(src) {
		count = len(src)
	}
	shuffled := make([]string, len(src))
	copy(shuffled, src)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}

var staticContent = map[types.ContentCategory][]string{
	types.CategoryMemory: {
		"What is your earliest childhood memory?",
		"What family tradition do you remember most fondly?",
		"What did a typical summer day look like when you were young?",
		"Who was your best friend growing up, and what did you do together?",
		"What smell instantly takes you back to your childhood home?",
		"What family trip do you remember best, and why?",
		"What did you want to be when you grew up?",
		"What song reminds you of a specific moment in your life?",
	},
	types.CategoryDaily: {
		"What was the best part of your day today?",
		"What made you laugh today?",
		"What was the most surprising thing that happened today?",
		"If you could redo one moment from today, which would it be?",
		"What did you eat today that you enjoyed most?",
		"Who did you talk to today that brightened your mood?",
		"What small thing did you accomplish today?",
		"What are you looking forward to tomorrow?",
	},
	types.CategoryFuture: {
		"Where would you love to live someday?",
		"What skill do you hope to learn in the next few years?",
		"What does your ideal weekend look like five years from now?",
		"What adventure do you dream of taking as a family?",
		"What do you hope will be different about your life next year?",
		"If you could start any project together, what would it be?",
		"What tradition would you like our family to start?",
		"What would you do with a completely free year?",
	},
	types.CategoryGratitude: {
		"What are you most thankful for this week?",
		"Who has helped you recently, and how?",
		"What everyday comfort would you miss most if it were gone?",
		"What is something a family member did that made you feel loved?",
		"What place are you grateful to have visited?",
		"What ability or talent are you most thankful for?",
		"What challenge turned out to be a blessing in disguise?",
		"What made you smile today that you almost didn't notice?",
	},
	types.CategoryGeneral: {
		"If you could have dinner with anyone, living or dead, who would it be?",
		"What is the best advice you have ever received?",
		"If our family had a motto, what should it be?",
		"What movie could you watch over and over again?",
		"What is something you believe that most people disagree with?",
		"If you could trade lives with someone for a day, who would it be?",
		"What is your favorite thing about our family?",
		"What would you do if you won the lottery tomorrow?",
	},
	types.CategoryTravel: {
		"Take a weekend road trip to a town none of us has visited",
		"Watch the sunrise together from a mountain top",
		"Plan a camping trip under the stars",
		"Visit the place where the grandparents grew up",
		"Spend a day exploring a new city with no itinerary",
		"Take a train journey just for the ride",
		"Swim in three different lakes in one summer",
		"Visit a national park and hike a full trail",
	},
	types.CategoryActivity: {
		"Have a family game night with everyone's favorite games",
		"Cook a three-course dinner together from scratch",
		"Build a blanket fort and watch movies inside it",
		"Plant a vegetable garden and harvest it together",
		"Have a picnic in a park we have never been to",
		"Organize a family talent show in the living room",
		"Do a puzzle with over a thousand pieces",
		"Spend a whole day outside without any screens",
	},
	types.CategoryExperience: {
		"See a live concert together as a family",
		"Attend a local festival we have never been to",
		"Watch a meteor shower from a dark spot outside town",
		"Go to a theater play chosen by the youngest family member",
		"Visit a museum and each pick a favorite exhibit",
		"Try a cuisine none of us has ever tasted",
		"Attend a sporting event for a sport we know nothing about",
		"Take a hot air balloon ride at dawn",
	},
	types.CategoryHobby: {
		"Learn a card game that becomes our family game",
		"Start a family photo album and add to it every month",
		"Build a birdhouse and track who moves in",
		"Learn to bake bread and perfect one recipe",
		"Start a tiny library box for the neighborhood",
		"Paint one picture each and hang them side by side",
		"Collect something small from every trip we take",
		"Learn origami and fold a hundred cranes together",
	},
	types.CategoryLearning: {
		"Learn ten phrases in a new language together",
		"Take a first-aid course as a family",
		"Learn the constellations and find five in the night sky",
		"Each teach the family one thing we are good at",
		"Learn to identify five trees in our neighborhood",
		"Take a pottery or craft class together",
		"Read the same book and talk about it over dinner",
		"Learn to cook a dish from a different country every month",
	},
	types.CategoryBonding: {
		"Write letters to each other and open them in one year",
		"Make a time capsule and bury it in the yard",
		"Interview the oldest family member about their life",
		"Create a family recipe book with everyone's favorites",
		"Have a device-free dinner once a week for a month",
		"Tell each family member three things we admire about them",
		"Draw our family tree as far back as we can",
		"Start a gratitude jar and read it on New Year's Eve",
	},
}
