package cli

import "trivia-rush/internal/domain"

// defaultBanks provides the built-in web-trivia question set; swap the loader
// for the Postgres-backed one to serve authored banks in production.
func defaultBanks() map[string]domain.Bank {
	keepOrder := false
	return map[string]domain.Bank{
		"web-trivia": {
			ID: "web-trivia",
			Questions: []domain.Question{
				{
					Text:    "What type is 'NaN'?",
					Choices: []string{"Number", "String", "BigInt", "undefined"},
					Answer:  0,
				},
				{
					Text:    "Creating a variable equal to '{}' with key value pairs inside is called a/an ______.",
					Choices: []string{"array", "object", "function", "map"},
					Answer:  1,
				},
				{
					Text:    "Centering a div was always hard, not until ______ were introduced in CSS.",
					Choices: []string{"float", "selectors", "media queries", "flex boxes"},
					Answer:  3,
				},
				{
					Text:    "HTML is a ______.",
					Choices: []string{"programming language", "markup language", "browser script", "PDF"},
					Answer:  1,
				},
				{
					Text:    "The 'setInterval' function executes code after a certain duration. True or false?",
					Choices: []string{"True", "False"},
					Answer:  1,
				},
				{
					Text:    "In CSS exists the 'color' property. What does it do?",
					Choices: []string{"Changes the background color", "Changes the border color", "Changes the text color", "Nothing"},
					Answer:  2,
				},
				{
					Text:           "You want to hide an element. How do you accomplish that?",
					Choices:        []string{"Set its display property to 'none'", "Apply the 'hidden' attribute", "Both of the above", "Delete the element from the DOM"},
					Answer:         2,
					ShuffleChoices: &keepOrder,
				},
				{
					Text:    "What selector do you use to grab an element with an id of 'message'?",
					Choices: []string{"#message", ".message", "message", "document.getElementById('message')"},
					Answer:  0,
				},
				{
					Text:    "In Javascript, everything is treated as a/an ______.",
					Choices: []string{"object", "array", "primitives", "classes"},
					Answer:  0,
				},
				{
					Text:    "In CSS, a selector that grabs an element by its state, attribute, or position such as ':hover' is called _____.",
					Choices: []string{"IDs", "classes", "pseudo classes", "property"},
					Answer:  2,
				},
				{
					Text:    "In HTML, how do you add data attributes to an element? (<data-attr> is a data name placeholder)",
					Choices: []string{"<data-attr>=\"\"", "data-<data-attr>=\"\"", "dataset-<data-attr>=\"\"", "data<data-attr>=\"\""},
					Answer:  1,
				},
			},
		},
	}
}
