package trivia

// DefaultQuestions is the built-in pool used when a session brings none.
func DefaultQuestions() []Question {
	return []Question{
		{ID: "tq-001", Prompt: "Which planet is known as the Red Planet?", Choices: []string{"Venus", "Mars", "Jupiter", "Mercury"}, Answer: 1},
		{ID: "tq-002", Prompt: "How many sides does a hexagon have?", Choices: []string{"5", "6", "7", "8"}, Answer: 1},
		{ID: "tq-003", Prompt: "What is the largest ocean on Earth?", Choices: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, Answer: 3},
		{ID: "tq-004", Prompt: "Which gas do plants absorb from the air?", Choices: []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Helium"}, Answer: 2},
		{ID: "tq-005", Prompt: "What is the chemical symbol for gold?", Choices: []string{"Au", "Ag", "Gd", "Go"}, Answer: 0, Points: 2},
		{ID: "tq-006", Prompt: "In which continent is the Sahara desert?", Choices: []string{"Asia", "Africa", "Australia", "South America"}, Answer: 1},
		{ID: "tq-007", Prompt: "How many minutes are in a full day?", Choices: []string{"1440", "1240", "1640", "960"}, Answer: 0, Points: 2},
		{ID: "tq-008", Prompt: "Which instrument has 88 keys?", Choices: []string{"Organ", "Accordion", "Piano", "Harpsichord"}, Answer: 2},
		{ID: "tq-009", Prompt: "What is the hardest natural substance?", Choices: []string{"Iron", "Quartz", "Diamond", "Granite"}, Answer: 2},
		{ID: "tq-010", Prompt: "Which animal is the largest mammal?", Choices: []string{"Elephant", "Blue whale", "Giraffe", "Orca"}, Answer: 1},
	}
}
