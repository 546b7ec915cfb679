package mock

import (
	"fmt"
	"math/rand/v2"
)

var cities = []string{
	"Tokyo", "Osaka", "Kanagawa", "Kyoto", "Saitama",
	"Chiba", "Aichi", "Fukuoka", "Hokkaido", "Okinawa",
}

var techEvents = []string{
	"Tech Conference 2023", "Developers Summit", "JavaScript Fest",
	"Python Study Group", "AI Summit", "Web Design Workshop",
	"React Meetup", "Cloud Computing Conference",
	"Mobile App Development Seminar", "Data Science Forum",
}

var techs = []string{
	"React", "Vue.js", "Angular", "Node.js", "Python",
	"Java", "PHP", "Ruby", "Swift", "Kotlin",
	"Go", "Rust", "TypeScript", "C#", "AWS",
	"Docker", "Kubernetes", "TensorFlow", "PyTorch", "Flutter",
}

var companies = []string{
	"a tech startup", "a global IT company", "a major telecom",
	"a fintech company", "a large e-commerce company", "a consulting firm",
	"a marketing agency", "a healthcare IT company", "an edtech company",
	"a mobile app studio",
}

var books = []string{
	"Clean Code", "The Art of Readable Code", "Head First Design Patterns",
	"The Pragmatic Programmer", "Don't Make Me Think", "Agile Software Development",
	"Life 3.0", "Data Science from Scratch", "Blockchain Revolution",
	"Management 3.0",
}

var conferences = []string{
	"JSConf", "PyCon", "RubyKaigi", "AWS Summit",
	"Google I/O", "Apple WWDC", "Microsoft Build",
	"TensorFlow Developer Summit", "ReactConf", "DevOps Days",
}

type postTemplate func(rng *rand.Rand) string

func fixed(text string) postTemplate {
	return func(*rand.Rand) string { return text }
}

func withName(format string, names []string) postTemplate {
	return func(rng *rand.Rand) string {
		return fmt.Sprintf(format, pick(rng, names))
	}
}

var postTemplates = []postTemplate{
	fixed("Kicked off a new project today! Details coming soon #newproject"),
	fixed("Another productive day done. Let's keep it going tomorrow! #dailygrind"),
	withName("Attended %s today. Learned a lot! #event", techEvents),
	withName("Published a new %s tutorial. Check it out if you're interested.", techs),
	withName("Just wrapped up a meeting with %s. Looking forward to working with a great team!", companies),
	withName("Finished reading %s. Full of useful ideas, highly recommended! #reading", books),
	withName("Picked up some new %s skills. Fun to learn! #levelup", techs),
	withName("Gave a talk at %s. Got lots of great feedback!", conferences),
	withName("Been thinking about how fast %s is evolving lately. What do you all think?", techs),
	fixed("Starting a new position! Looking forward to what's next #career"),
}
