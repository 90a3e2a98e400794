package model

import "time"

// Prompt is one question bank entry
type Prompt struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Category  Category  `json:"category" bson:"category"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SamplePrompts seeds empty banks so a fresh install is playable
var SamplePrompts = map[Category][]string{
	CategoryTruthBoy: {
		"What do you do to look attractive?",
		"Who do you have a crush on right now?",
		"Have you ever been in love?",
	},
	CategoryTruthGirl: {
		"How many children would you like to have?",
		"Who was your first love?",
		"What do you like most about the person on your left?",
	},
	CategoryDareBoy: {
		"Sing a short song",
		"Imitate an animal for one minute",
		"Say the name of one of your crushes out loud",
	},
	CategoryDareGirl: {
		"Sing a song or recite a poem",
		"Tell a small secret",
		"Send a funny photo from your gallery",
	},
}
