// Package assistant answers free-text (transcribed voice) weather questions.
package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weatherverse/internal/common"
	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/weather"
)

// Intent is what a command asks for.
type Intent string

const (
	IntentWeather     Intent = "weather"
	IntentClothing    Intent = "clothing"
	IntentActivity    Intent = "activity"
	IntentTravel      Intent = "travel"
	IntentTemperature Intent = "temperature"
	IntentGreeting    Intent = "greeting"
	IntentMorning     Intent = "morning"
	IntentEvening     Intent = "evening"
	IntentCompare     Intent = "compare"
	IntentHelp        Intent = "help"
	IntentGeneral     Intent = "general"
)

const (
	compareText = "To compare weather between cities, please use the travel planner where you can see detailed comparisons and travel recommendations."
	helpText    = "I can help you with weather information for any city worldwide! Try asking: 'What's the weather in Tokyo?', 'What should I wear in London?', 'Weather in New York', 'What should I do in Paris?', or 'Should I travel to Mumbai?'. I can provide weather, clothing advice, activity suggestions, and travel tips for any location."
	apologyText = "Sorry, I couldn't fetch the weather information right now. Please check your internet connection and try again."
	noPlaceText = "Tell me which city you are interested in, for example 'Weather in Paris'."
)

// Reply is the assistant's answer to one command.
type Reply struct {
	Intent Intent `json:"intent"`
	City   string `json:"city,omitempty"`
	Text   string `json:"text"`
}

// Fetcher returns the current weather for a query.
type Fetcher interface {
	Current(ctx context.Context, q weather.Query) (weather.Snapshot, error)
}

type Assistant struct {
	fetcher Fetcher
}

func New(fetcher Fetcher) *Assistant {
	return &Assistant{fetcher: fetcher}
}

// Answer replies to command. A named city is looked up by name; otherwise
// here is used. Lookup failures are reported in the reply text, not as errors.
func (a *Assistant) Answer(ctx context.Context, command string, here *records.Coordinates) Reply {
	lower := strings.ToLower(command)
	reply := Reply{
		Intent: Classify(lower),
		City:   ExtractCity(lower),
	}

	switch reply.Intent {
	case IntentCompare:
		reply.Text = compareText
		return reply
	case IntentHelp:
		reply.Text = helpText
		return reply
	}

	var q weather.Query
	switch {
	case reply.City != "":
		q = weather.ByCity(reply.City)
	case here != nil:
		q = weather.ByCoordinates(here.Lat, here.Lon)
	default:
		reply.Text = noPlaceText
		return reply
	}

	snap, err := a.fetcher.Current(ctx, q)
	if err != nil {
		log.Warn().Err(err).Str("query", q.String()).Msg("assistant: weather lookup failed")
		if reply.City != "" {
			reply.Text = notFoundText(reply.Intent, reply.City)
		} else {
			reply.Text = apologyText
		}
		return reply
	}

	reply.Text = respond(reply.Intent, snap)
	return reply
}

func notFoundText(intent Intent, city string) string {
	const retry = "Please check the city name and try again."
	switch intent {
	case IntentClothing:
		return fmt.Sprintf("I couldn't find weather information for %s to give clothing advice. %s", city, retry)
	case IntentActivity:
		return fmt.Sprintf("I couldn't find weather information for %s to suggest activities. %s", city, retry)
	case IntentTravel:
		return fmt.Sprintf("I couldn't find weather information for %s to give travel advice. %s", city, retry)
	case IntentTemperature:
		return fmt.Sprintf("I couldn't find temperature information for %s. %s", city, retry)
	case IntentMorning:
		return fmt.Sprintf("Good morning! I couldn't find weather information for %s. %s", city, retry)
	case IntentEvening:
		return fmt.Sprintf("Good evening! I couldn't find weather information for %s. %s", city, retry)
	default:
		return fmt.Sprintf("I couldn't find weather information for %s. %s", city, retry)
	}
}

var cityPatterns = func() []*regexp.Regexp {
	prefixes := []string{
		"weather in", "temperature in", "wear in", "do in", "travel to", "trip to",
		"morning in", "evening in", "hot in", "cold in", "how is", "what about", "check",
	}
	res := make([]*regexp.Regexp, 0, len(prefixes))
	for _, p := range prefixes {
		res = append(res, regexp.MustCompile(`\b`+p+`\s+([a-z][a-z\s,]*)`))
	}
	return res
}()

// Trailing words that belong to the question rather than the city name.
var fillerWords = map[string]bool{
	"today": true, "tonight": true, "tomorrow": true, "now": true, "right": true,
	"please": true, "currently": true, "like": true, "this": true, "week": true,
}

// Words that start a new clause; the city name ends before them.
var connectorWords = map[string]bool{
	"and": true, "or": true, "but": true, "what": true, "how": true,
	"vs": true, "versus": true, "then": true, "compared": true,
}

// maxCityWords bounds a captured name ("rio de janeiro", "salt lake city").
const maxCityWords = 4

// ExtractCity returns the city named in command, or "" when none is found.
// Patterns are tried in order and the first match wins.
func ExtractCity(command string) string {
	command = strings.ToLower(command)
	for _, re := range cityPatterns {
		m := re.FindStringSubmatch(command)
		if m == nil {
			continue
		}
		words := strings.Fields(strings.Trim(m[1], " ,"))
		for i, w := range words {
			if connectorWords[strings.Trim(w, ",")] {
				words = words[:i]
				break
			}
		}
		if len(words) > maxCityWords {
			words = words[:maxCityWords]
		}
		for len(words) > 0 && fillerWords[words[len(words)-1]] {
			words = words[:len(words)-1]
		}
		if city := strings.TrimRight(strings.Join(words, " "), ","); city != "" {
			return city
		}
	}
	return ""
}

var greetingPattern = regexp.MustCompile(`\b(hello|hi|hey)\b`)

// Classify returns the intent of command. Earlier intents take priority.
func Classify(command string) Intent {
	c := strings.ToLower(command)
	switch {
	case common.ContainsAny(c, "weather", "temperature"):
		return IntentWeather
	case common.ContainsAny(c, "what should i wear", "clothing", "dress"):
		return IntentClothing
	case common.ContainsAny(c, "what should i do", "activity", "plan"):
		return IntentActivity
	case common.ContainsAny(c, "travel", "trip", "drive"):
		return IntentTravel
	case common.ContainsAny(c, "how hot", "how cold"):
		return IntentTemperature
	case greetingPattern.MatchString(c):
		return IntentGreeting
	case common.ContainsAny(c, "morning"):
		return IntentMorning
	case common.ContainsAny(c, "evening"):
		return IntentEvening
	case common.ContainsAny(c, "compare", "difference"):
		return IntentCompare
	case common.ContainsAny(c, "help", "what can you do"):
		return IntentHelp
	default:
		return IntentGeneral
	}
}
