package models

type Exercise struct {
	Name string `json:"name" bson:"name"`
	Type string `json:"type" bson:"type"`
}

type ExerciseView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type SessionType struct {
	Value string `json:"value" bson:"value"`
	Label string `json:"label" bson:"label"`
}

type SessionTypeView struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
}
