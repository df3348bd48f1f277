package assistant

import (
	"fmt"
	"strings"

	"github.com/i474232898/weatherverse/internal/common"
	"github.com/i474232898/weatherverse/internal/weather"
)

func place(s weather.Snapshot) string {
	if s.Country == "" {
		return s.City
	}
	return s.City + ", " + s.Country
}

func respond(intent Intent, s weather.Snapshot) string {
	switch intent {
	case IntentWeather:
		return fmt.Sprintf("The weather in %s is currently %g degrees Celsius with %s. The humidity is %g%% and wind speed is %g meters per second. It feels like %g degrees.",
			place(s), s.Temperature, s.Description, s.Humidity, s.WindSpeed, s.FeelsLike)
	case IntentClothing:
		return clothingAdvice(s)
	case IntentActivity:
		return activitySuggestion(s)
	case IntentTravel:
		return travelAdvice(s)
	case IntentTemperature:
		switch {
		case s.Temperature > 30:
			return fmt.Sprintf("It's quite hot in %s at %g degrees Celsius. Make sure to stay hydrated and seek shade when possible!", place(s), s.Temperature)
		case s.Temperature < 10:
			return fmt.Sprintf("It's quite cold in %s at %g degrees Celsius. Bundle up and stay warm!", place(s), s.Temperature)
		default:
			return fmt.Sprintf("The temperature in %s is %g degrees Celsius. It's quite comfortable!", place(s), s.Temperature)
		}
	case IntentGreeting:
		return fmt.Sprintf("Hello! I'm your WeatherVerse assistant. It's currently %g degrees and %s in %s. I can help you with weather information for any city worldwide. How can I help you today?",
			s.Temperature, s.Description, s.City)
	case IntentMorning:
		return fmt.Sprintf("Good morning! It's a %s day in %s with %g degrees. %s", s.Description, place(s), s.Temperature, morningAdvice(s))
	case IntentEvening:
		return fmt.Sprintf("Good evening! The weather in %s is %s with %g degrees. %s", place(s), s.Description, s.Temperature, eveningAdvice(s))
	default:
		return fmt.Sprintf("I'm here to help with weather information worldwide! Currently in %s, it's %g degrees and %s. You can ask me about weather in any city, clothing advice, activities, or travel tips. For example, try 'Weather in Paris' or 'What should I wear in Tokyo?'. What would you like to know?",
			s.City, s.Temperature, s.Description)
	}
}

func clothingAdvice(s weather.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "For %g degrees in %s, I recommend: ", s.Temperature, place(s))

	t := s.Temperature
	switch {
	case t > 35:
		b.WriteString("Very light, breathable clothing like cotton t-shirts, shorts, and sandals. Definitely wear sunscreen, a hat, and stay in shade!")
	case t > 30:
		b.WriteString("Light, breathable clothing like cotton t-shirts and shorts. Don't forget sunscreen and a hat!")
	case t > 25:
		b.WriteString("Comfortable summer wear like t-shirts, light pants or shorts. Light colors work best.")
	case t > 20:
		b.WriteString("Comfortable casual wear like jeans and a t-shirt or light sweater.")
	case t > 15:
		b.WriteString("Layer up with a light jacket or hoodie. Long pants and closed shoes would be good.")
	case t > 10:
		b.WriteString("Wear a jacket or hoodie with long pants. Consider bringing a scarf.")
	case t > 5:
		b.WriteString("Warm clothing like a coat, scarf, and gloves. Definitely wear layers!")
	case t > 0:
		b.WriteString("Heavy winter clothing! Coat, warm layers, gloves, hat, and warm boots are essential.")
	default:
		b.WriteString("Extreme cold protection! Heavy winter coat, multiple layers, insulated gloves, warm hat, scarf, and waterproof boots.")
	}

	cond := string(s.Condition)
	switch {
	case common.ContainsAny(cond, "rain"):
		b.WriteString(" Also, bring an umbrella or rain jacket as it's raining.")
	case common.ContainsAny(cond, "snow"):
		b.WriteString(" Also, wear waterproof boots and warm accessories as it's snowing.")
	case common.ContainsAny(cond, "wind"):
		b.WriteString(" Consider a windbreaker as it's windy.")
	}
	return b.String()
}

func activitySuggestion(s weather.Snapshot) string {
	prefix := fmt.Sprintf("With %g degrees and %s in %s, ", s.Temperature, s.Description, place(s))
	cond := string(s.Condition)
	t := s.Temperature

	switch {
	case common.ContainsAny(cond, "rain"):
		return prefix + "it's perfect for indoor activities like visiting museums, shopping malls, cafes, reading, cooking, or watching movies."
	case common.ContainsAny(cond, "snow"):
		return prefix + "you could enjoy winter activities like building a snowman, skiing, or cozy indoor activities by the fireplace."
	case t > 30 && common.ContainsAny(cond, "clear"):
		return prefix + "it's great for water activities like swimming, beach visits, or early morning/evening outdoor activities. Stay hydrated!"
	case t > 25 && common.ContainsAny(cond, "clear"):
		return prefix + "it's perfect for outdoor activities like hiking, picnics, sports, or sightseeing!"
	case t > 20:
		return prefix + "it's nice for walking, light outdoor activities, exploring the city, or visiting parks."
	case t > 15:
		return prefix + "it's good for moderate outdoor activities like walking tours, visiting outdoor markets, or light hiking."
	case t > 10:
		return prefix + "brief outdoor activities with proper clothing, or indoor activities like museums and cafes."
	case t < 5:
		return prefix + "indoor activities would be more comfortable, such as visiting museums, shopping centers, or cozy restaurants."
	default:
		return prefix + "it's decent for most activities with proper clothing. Maybe a nice walk or some light outdoor exploration."
	}
}

func travelAdvice(s weather.Snapshot) string {
	prefix := fmt.Sprintf("For travel in %s with current conditions: ", place(s))
	cond := string(s.Condition)
	t := s.Temperature

	switch {
	case common.ContainsAny(cond, "rain"):
		return prefix + "Roads may be wet and slippery. Drive carefully, use headlights, reduce speed, and allow extra time for your journey."
	case common.ContainsAny(cond, "snow"):
		return prefix + "Winter driving conditions! Use snow tires if available, drive slowly, keep extra distance, and check road conditions before traveling."
	case s.WindSpeed > 25:
		return prefix + "Very high winds detected. Avoid travel if possible, especially for high-profile vehicles. If you must travel, drive slowly and be prepared for sudden gusts."
	case s.WindSpeed > 15:
		return prefix + "High winds detected. Be cautious of crosswinds, especially in high-profile vehicles or on bridges."
	case t < -5:
		return prefix + "Extreme cold may cause icy roads and vehicle issues. Warm up your vehicle, check tire pressure, and carry emergency supplies."
	case t < 0:
		return prefix + "Freezing temperatures may cause icy roads. Drive carefully, warm up your vehicle, and watch for black ice."
	case common.ContainsAny(cond, "clear") && t > 15 && t < 30:
		return prefix + "Excellent conditions for travel! Clear roads, good visibility, and comfortable temperatures."
	case t > 35:
		return prefix + "Very hot conditions. Ensure your vehicle's cooling system is working, carry extra water, and avoid travel during peak heat hours."
	default:
		return prefix + "Generally good conditions for travel. Standard precautions apply - drive safely and stay alert."
	}
}

func morningAdvice(s weather.Snapshot) string {
	cond := string(s.Condition)
	switch {
	case common.ContainsAny(cond, "rain"):
		return "Don't forget your umbrella for the day!"
	case s.Temperature > 30:
		return "It's going to be a hot day, start hydrating early!"
	case s.Temperature < 10:
		return "Bundle up, it's quite chilly this morning!"
	case common.ContainsAny(cond, "clear"):
		return "Beautiful morning! Perfect for starting the day with some outdoor time."
	default:
		return "Have a great day ahead!"
	}
}

func eveningAdvice(s weather.Snapshot) string {
	cond := string(s.Condition)
	switch {
	case common.ContainsAny(cond, "clear") && s.Temperature > 20:
		return "Perfect evening for a walk or outdoor dining!"
	case common.ContainsAny(cond, "rain"):
		return "Cozy evening weather - perfect for staying in with a warm drink!"
	case s.Temperature < 10:
		return "It's getting chilly - time to warm up indoors!"
	case common.ContainsAny(cond, "clear"):
		return "Clear evening skies - great for stargazing!"
	default:
		return "Enjoy your evening!"
	}
}
