package models

type WorkExperience struct {
	Company    string   `bson:"company" json:"company"`
	Role       string   `bson:"role" json:"role"`
	Duration   string   `bson:"duration" json:"duration"`
	Highlights []string `bson:"highlights,omitempty" json:"highlights"`
}

type Education struct {
	Institution string `bson:"institution" json:"institution"`
	Degree      string `bson:"degree" json:"degree"`
	Field       string `bson:"field" json:"field"`
	Year        string `bson:"year,omitempty" json:"year,omitempty"`
}

// CVProfile is the structured form of an uploaded CV. It is built once by the
// LLM extraction call and never mutated afterwards.
type CVProfile struct {
	Name              string           `bson:"name" json:"name"`
	CurrentRole       string           `bson:"current_role" json:"current_role"`
	YearsOfExperience float64          `bson:"years_of_experience" json:"years_of_experience"`
	Skills            []string         `bson:"skills,omitempty" json:"skills"`
	WorkExperience    []WorkExperience `bson:"work_experience,omitempty" json:"work_experience"`
	Education         []Education      `bson:"education,omitempty" json:"education"`
	RawText           string           `bson:"raw_text" json:"raw_text"`
}
