package rules

type combo struct {
	weather string
	mood    string
}

// table holds three candidate beverages per weather and mood pair.
var table = map[combo][]string{
	{"Hot", "Tired"}:     {"Iced Coffee", "Cold Brew", "Iced Latte"},
	{"Hot", "Energetic"}: {"Energy Drink", "Iced Green Tea", "Cold Coffee"},
	{"Hot", "Happy"}:     {"Fresh Juice", "Fruit Smoothie", "Iced Tea"},
	{"Hot", "Stressed"}:  {"Iced Tea", "Mint Lemonade", "Cucumber Water"},
	{"Hot", "Sad"}:       {"Mango Smoothie", "Strawberry Shake", "Iced Chocolate"},
	{"Hot", "Relaxed"}:   {"Iced Herbal Tea", "Coconut Water", "Watermelon Juice"},
	{"Hot", "Focused"}:   {"Cold Brew Coffee", "Iced Green Tea", "Iced Matcha"},
	{"Hot", "Excited"}:   {"Energy Drink", "Orange Juice", "Tropical Smoothie"},

	{"Sunny", "Happy"}:     {"Lemonade", "Orange Juice", "Pineapple Juice"},
	{"Sunny", "Tired"}:     {"Iced Coffee", "Cold Brew", "Iced Americano"},
	{"Sunny", "Energetic"}: {"Smoothie", "Fresh Juice", "Iced Green Tea"},
	{"Sunny", "Stressed"}:  {"Iced Tea", "Lemonade", "Herbal Iced Tea"},
	{"Sunny", "Sad"}:       {"Chocolate Smoothie", "Strawberry Milkshake", "Iced Mocha"},
	{"Sunny", "Relaxed"}:   {"Coconut Water", "Iced Herbal Tea", "Fresh Lemonade"},
	{"Sunny", "Focused"}:   {"Iced Americano", "Green Tea", "Iced Matcha"},
	{"Sunny", "Excited"}:   {"Tropical Smoothie", "Mango Lassi", "Berry Smoothie"},

	{"Cold", "Tired"}:     {"Hot Coffee", "Cappuccino", "Espresso"},
	{"Cold", "Happy"}:     {"Hot Chocolate", "Caramel Latte", "Mocha"},
	{"Cold", "Stressed"}:  {"Chamomile Tea", "Green Tea", "Lavender Tea"},
	{"Cold", "Sad"}:       {"Hot Chocolate", "Warm Milk", "Caramel Macchiato"},
	{"Cold", "Energetic"}: {"Hot Coffee", "Black Tea", "Chai Latte"},
	{"Cold", "Relaxed"}:   {"Herbal Tea", "Green Tea", "White Tea"},
	{"Cold", "Focused"}:   {"Black Coffee", "Green Tea", "Matcha Latte"},
	{"Cold", "Excited"}:   {"Spiced Chai", "Hot Coffee", "Cinnamon Latte"},

	{"Rainy", "Relaxed"}:   {"Herbal Tea", "Chamomile Tea", "Ginger Tea"},
	{"Rainy", "Sad"}:       {"Hot Chocolate", "Warm Milk", "Honey Tea"},
	{"Rainy", "Happy"}:     {"Chai", "Masala Chai", "Spiced Tea"},
	{"Rainy", "Tired"}:     {"Hot Coffee", "Cappuccino", "Latte"},
	{"Rainy", "Stressed"}:  {"Chamomile Tea", "Lavender Tea", "Green Tea"},
	{"Rainy", "Energetic"}: {"Black Coffee", "Chai Latte", "Black Tea"},
	{"Rainy", "Focused"}:   {"Green Tea", "Black Coffee", "Oolong Tea"},
	{"Rainy", "Excited"}:   {"Masala Chai", "Hot Chocolate", "Spiced Coffee"},

	{"Cloudy", "Focused"}:   {"Green Tea", "Black Coffee", "Matcha"},
	{"Cloudy", "Happy"}:     {"Cappuccino", "Latte", "Hot Chocolate"},
	{"Cloudy", "Tired"}:     {"Coffee", "Espresso", "Black Tea"},
	{"Cloudy", "Stressed"}:  {"Green Tea", "Herbal Tea", "White Tea"},
	{"Cloudy", "Sad"}:       {"Hot Chocolate", "Mocha", "Caramel Latte"},
	{"Cloudy", "Energetic"}: {"Black Coffee", "Americano", "Cold Brew"},
	{"Cloudy", "Relaxed"}:   {"Herbal Tea", "Green Tea", "Chamomile Tea"},
	{"Cloudy", "Excited"}:   {"Cappuccino", "Espresso", "Iced Coffee"},

	{"Snowy", "Happy"}:     {"Hot Chocolate", "Peppermint Mocha", "Eggnog"},
	{"Snowy", "Tired"}:     {"Hot Coffee", "Espresso", "Strong Black Tea"},
	{"Snowy", "Stressed"}:  {"Chamomile Tea", "Warm Milk", "Lavender Tea"},
	{"Snowy", "Sad"}:       {"Hot Chocolate", "Warm Milk with Honey", "Vanilla Latte"},
	{"Snowy", "Energetic"}: {"Black Coffee", "Espresso", "Americano"},
	{"Snowy", "Relaxed"}:   {"Herbal Tea", "Cinnamon Tea", "Ginger Tea"},
	{"Snowy", "Focused"}:   {"Black Coffee", "Green Tea", "Espresso"},
	{"Snowy", "Excited"}:   {"Hot Chocolate", "Peppermint Latte", "Spiced Coffee"},

	{"Stormy", "Stressed"}:  {"Chamomile Tea", "Lavender Tea", "Warm Milk"},
	{"Stormy", "Sad"}:       {"Hot Chocolate", "Comfort Tea", "Honey Tea"},
	{"Stormy", "Tired"}:     {"Strong Coffee", "Black Tea", "Espresso"},
	{"Stormy", "Happy"}:     {"Chai", "Hot Chocolate", "Spiced Tea"},
	{"Stormy", "Energetic"}: {"Black Coffee", "Americano", "Strong Tea"},
	{"Stormy", "Relaxed"}:   {"Herbal Tea", "Chamomile Tea", "Green Tea"},
	{"Stormy", "Focused"}:   {"Black Coffee", "Green Tea", "Oolong Tea"},
	{"Stormy", "Excited"}:   {"Espresso", "Strong Coffee", "Chai Latte"},

	{"Windy", "Energetic"}: {"Cold Brew", "Iced Coffee", "Energy Drink"},
	{"Windy", "Happy"}:     {"Fresh Juice", "Smoothie", "Iced Tea"},
	{"Windy", "Tired"}:     {"Hot Coffee", "Cappuccino", "Latte"},
	{"Windy", "Stressed"}:  {"Green Tea", "Herbal Tea", "Chamomile Tea"},
	{"Windy", "Sad"}:       {"Hot Chocolate", "Warm Beverage", "Comfort Drink"},
	{"Windy", "Relaxed"}:   {"Herbal Tea", "Green Tea", "Iced Tea"},
	{"Windy", "Focused"}:   {"Black Coffee", "Green Tea", "Americano"},
	{"Windy", "Excited"}:   {"Energy Drink", "Cold Brew", "Iced Coffee"},

	{"Foggy", "Relaxed"}:   {"Herbal Tea", "Chamomile Tea", "Green Tea"},
	{"Foggy", "Tired"}:     {"Hot Coffee", "Black Tea", "Espresso"},
	{"Foggy", "Happy"}:     {"Cappuccino", "Latte", "Hot Chocolate"},
	{"Foggy", "Stressed"}:  {"Chamomile Tea", "Lavender Tea", "Green Tea"},
	{"Foggy", "Sad"}:       {"Hot Chocolate", "Warm Milk", "Honey Tea"},
	{"Foggy", "Energetic"}: {"Black Coffee", "Americano", "Strong Tea"},
	{"Foggy", "Focused"}:   {"Green Tea", "Black Coffee", "Matcha"},
	{"Foggy", "Excited"}:   {"Espresso", "Cappuccino", "Strong Coffee"},
}

// Options returns the candidate beverages for the conditions. Unknown weather and
// mood pairs fall back to a temperature band.
func Options(weather, mood string, temperature float64) []string {
	if opts, ok := table[combo{weather, mood}]; ok {
		return append([]string(nil), opts...)
	}
	switch {
	case temperature > 35:
		return []string{"Iced Coffee", "Cold Brew", "Lemonade", "Iced Tea"}
	case temperature > 25:
		return []string{"Iced Coffee", "Lemonade", "Fresh Juice"}
	case temperature < 10:
		return []string{"Hot Coffee", "Hot Tea", "Hot Chocolate"}
	case temperature < 20:
		return []string{"Hot Coffee", "Cappuccino", "Green Tea"}
	default:
		return []string{"Green Tea", "Coffee", "Fresh Juice"}
	}
}
