package taboo

// DefaultCards is the built-in pool used when a session brings no cards.
func DefaultCards() []Card {
	return []Card{
		{ID: "tb-001", Word: "Beach", Forbidden: []string{"sand", "ocean", "sun", "waves", "summer"}},
		{ID: "tb-002", Word: "Guitar", Forbidden: []string{"strings", "music", "play", "instrument", "rock"}},
		{ID: "tb-003", Word: "Pizza", Forbidden: []string{"cheese", "Italy", "slice", "pepperoni", "oven"}},
		{ID: "tb-004", Word: "Astronaut", Forbidden: []string{"space", "moon", "rocket", "NASA", "float"}},
		{ID: "tb-005", Word: "Library", Forbidden: []string{"books", "read", "quiet", "borrow", "shelf"}},
		{ID: "tb-006", Word: "Umbrella", Forbidden: []string{"rain", "wet", "open", "handle", "weather"}},
		{ID: "tb-007", Word: "Volcano", Forbidden: []string{"lava", "erupt", "mountain", "hot", "ash"}},
		{ID: "tb-008", Word: "Birthday", Forbidden: []string{"cake", "party", "candles", "gift", "age"}},
		{ID: "tb-009", Word: "Penguin", Forbidden: []string{"bird", "ice", "black", "white", "Antarctica"}},
		{ID: "tb-010", Word: "Camera", Forbidden: []string{"photo", "picture", "lens", "flash", "click"}},
		{ID: "tb-011", Word: "Marathon", Forbidden: []string{"run", "race", "miles", "long", "finish"}},
		{ID: "tb-012", Word: "Dentist", Forbidden: []string{"teeth", "doctor", "drill", "mouth", "brush"}},
	}
}
