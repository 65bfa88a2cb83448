package synth

import (
	"fmt"
	"math/rand"
	"strings"
)

// source produces plausible leaf values from fixed word banks and a seeded
// random generator. It stands in for an external realistic-value provider:
// callers ask for a value of a given kind and never depend on how the value
// was assembled.
type source struct {
	rng *rand.Rand
}

var firstNames = []string{
	"Alice", "Benjamin", "Carla", "Daniel", "Elena", "Frank", "Grace",
	"Hector", "Isabel", "James", "Katherine", "Liam", "Maria", "Nathan",
	"Olivia", "Patrick", "Quinn", "Rosa", "Samuel", "Teresa", "Victor",
	"Wendy", "Xavier", "Yvonne", "Zachary",
}

var lastNames = []string{
	"Anderson", "Brooks", "Castillo", "Delgado", "Evans", "Fletcher",
	"Gallagher", "Harrison", "Ibrahim", "Jennings", "Kowalski", "Lindqvist",
	"Martinez", "Novak", "Okafor", "Petersen", "Quintana", "Reyes",
	"Sullivan", "Takahashi", "Underwood", "Vargas", "Whitfield", "Yamamoto",
	"Zimmerman",
}

var cities = []string{
	"Portland", "Madison", "Springfield", "Boulder", "Savannah", "Tacoma",
	"Asheville", "Fresno", "Richmond", "Toledo", "Lexington", "Greenville",
	"Albany", "Fairfield", "Bristol", "Clayton", "Georgetown", "Salem",
	"Auburn", "Clinton",
}

var states = []string{
	"California", "Oregon", "Texas", "Vermont", "Ohio", "Georgia",
	"Colorado", "Montana", "Virginia", "Michigan", "Arizona", "Maine",
	"Kansas", "Nevada", "Utah", "Wisconsin",
}

var countries = []string{
	"United States", "Canada", "Germany", "France", "Spain", "Italy",
	"Japan", "Australia", "Brazil", "Netherlands", "Sweden", "Ireland",
	"Portugal", "Norway", "Denmark", "Austria",
}

var streetNames = []string{
	"Maple", "Cedar", "Oak", "Willow", "Birch", "Chestnut", "Juniper",
	"Magnolia", "Sycamore", "Hawthorn", "Aspen", "Linden",
}

var streetSuffixes = []string{"Street", "Avenue", "Boulevard", "Lane", "Drive", "Court", "Road"}

var companySuffixes = []string{"Labs", "Industries", "Group", "Systems", "Holdings", "Partners", "Works", "Logistics"}

var jobTitles = []string{
	"Software Engineer", "Product Manager", "Data Analyst", "Operations Lead",
	"Account Executive", "Marketing Coordinator", "Research Scientist",
	"Customer Success Manager", "Financial Controller", "Logistics Planner",
	"Quality Inspector", "Field Technician",
}

var colorNames = []string{
	"crimson", "teal", "amber", "indigo", "olive", "coral", "slate",
	"maroon", "turquoise", "lavender", "ochre", "emerald",
}

var nouns = []string{
	"shipment", "ledger", "harbor", "summit", "orchard", "circuit",
	"meadow", "anchor", "beacon", "canvas", "drift", "ember", "fjord",
	"garnet", "horizon", "inlet", "jasper", "keel", "lantern", "monsoon",
	"nebula", "outpost", "prairie", "quarry", "ridge", "saddle", "timber",
	"umber", "vessel", "wharf",
}

var sentenceFillers = []string{
	"the", "a", "carefully", "quickly", "reviewed", "updated", "scheduled",
	"delivered", "between", "during", "report", "order", "package", "team",
	"customer", "warehouse", "morning", "afternoon", "confirmed", "pending",
	"approved", "recorded", "shipped", "returned", "inspected",
}

var emailDomains = []string{
	"brightmail.org", "postnook.net", "coastmail.io", "lumenbox.org",
	"fernmail.net", "quartzpost.io",
}

var uriDomains = []string{
	"northwind-supplies.io", "bluecanyon.dev", "silverbirch.app",
	"harborlight.io", "stonegate.dev", "clearriver.app",
}

func (s *source) pick(values []string) string {
	return values[s.rng.Intn(len(values))]
}

func (s *source) firstName() string { return s.pick(firstNames) }

func (s *source) lastName() string { return s.pick(lastNames) }

func (s *source) fullName() string {
	return s.firstName() + " " + s.lastName()
}

func (s *source) company() string {
	return s.pick(lastNames) + " " + s.pick(companySuffixes)
}

func (s *source) email() string {
	local := strings.ToLower(s.firstName()) + "." + strings.ToLower(s.lastName())
	return local + "@" + s.pick(emailDomains)
}

func (s *source) phone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d",
		200+s.rng.Intn(700), 200+s.rng.Intn(700), s.rng.Intn(10000))
}

func (s *source) url() string {
	return "https://" + s.pick(uriDomains) + "/" + s.pick(nouns)
}

func (s *source) domain() string {
	return s.pick(uriDomains)
}

func (s *source) streetAddress() string {
	return fmt.Sprintf("%d %s %s", 1+s.rng.Intn(9899), s.pick(streetNames), s.pick(streetSuffixes))
}

func (s *source) address() string {
	return fmt.Sprintf("%s, %s, %s %s",
		s.streetAddress(), s.city(), s.state(), s.zipCode())
}

func (s *source) city() string { return s.pick(cities) }

func (s *source) state() string { return s.pick(states) }

func (s *source) country() string { return s.pick(countries) }

func (s *source) zipCode() string {
	return fmt.Sprintf("%05d", 10000+s.rng.Intn(89999))
}

func (s *source) date() string {
	return fmt.Sprintf("%04d-%02d-%02d", 2020+s.rng.Intn(6), 1+s.rng.Intn(12), 1+s.rng.Intn(28))
}

func (s *source) dateTime() string {
	return s.date() + "T" + s.clockTime() + "Z"
}

func (s *source) clockTime() string {
	return fmt.Sprintf("%02d:%02d:%02d", s.rng.Intn(24), s.rng.Intn(60), s.rng.Intn(60))
}

func (s *source) jobTitle() string { return s.pick(jobTitles) }

func (s *source) colorName() string { return s.pick(colorNames) }

func (s *source) username() string {
	return strings.ToLower(s.firstName()) + fmt.Sprintf("%02d", s.rng.Intn(100))
}

func (s *source) password() string {
	const alphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"
	length := 10 + s.rng.Intn(6)
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteByte(alphabet[s.rng.Intn(len(alphabet))])
	}
	return b.String()
}

func (s *source) ipv4() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+s.rng.Intn(223), s.rng.Intn(256), s.rng.Intn(256), 1+s.rng.Intn(254))
}

func (s *source) macAddress() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		s.rng.Intn(256), s.rng.Intn(256), s.rng.Intn(256),
		s.rng.Intn(256), s.rng.Intn(256), s.rng.Intn(256))
}

// uuidString formats random bytes from the seeded generator as a version-4
// style identifier, keeping synthesis reproducible.
func (s *source) uuidString() string {
	b := make([]byte, 16)
	for i := range b {
		b[i] = byte(s.rng.Intn(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

func (s *source) word() string { return s.pick(nouns) }

func (s *source) capitalizedWord() string {
	word := s.word()
	return strings.ToUpper(word[:1]) + word[1:]
}

// sentence assembles words joined capitalized-first with a trailing period.
func (s *source) sentence(words int) string {
	if words < 1 {
		words = 1
	}
	parts := make([]string, 0, words)
	for i := 0; i < words; i++ {
		parts = append(parts, s.pick(sentenceFillers))
	}
	text := strings.Join(parts, " ")
	return strings.ToUpper(text[:1]) + text[1:] + "."
}

func (s *source) paragraph(sentences int) string {
	if sentences < 1 {
		sentences = 1
	}
	parts := make([]string, 0, sentences)
	for i := 0; i < sentences; i++ {
		parts = append(parts, s.sentence(5+s.rng.Intn(8)))
	}
	return strings.Join(parts, " ")
}
