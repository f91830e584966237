package bot

import "github.com/mcoot/lettergame/internal/model"

var firstNames = map[model.Language][]string{
	model.LanguageEnglish: {
		"Alice", "Arthur", "Charlotte", "Daniel", "Edward", "Emily", "George", "Grace",
		"Harry", "Isabel", "Jack", "James", "Lucy", "Mary", "Oliver", "Oscar",
		"Rose", "Sophie", "Thomas", "William",
	},
	model.LanguagePolish: {
		"Agnieszka", "Aleksander", "Anna", "Bartosz", "Dorota", "Ewa", "Grzegorz", "Jakub",
		"Joanna", "Kacper", "Katarzyna", "Łukasz", "Magdalena", "Marek", "Michał", "Natalia",
		"Paweł", "Piotr", "Wojciech", "Zofia",
	},
}
