package models

// Link — внешняя ссылка в шапке резюме.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Basics — контактный блок резюме. Поля всегда берутся из профиля
// пользователя и моделью не переписываются.
type Basics struct {
	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Links    []Link `json:"links"`
	PhotoURL string `json:"photoUrl"`
}

// Skill — навык с необязательным уровнем владения.
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Experience — запись об опыте работы. End == nil означает «по настоящее время».
type Experience struct {
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	Start      string   `json:"start"`
	End        *string  `json:"end"`
	Location   string   `json:"location"`
	Highlights []string `json:"highlights"`
}

// Project — проект с используемыми технологиями.
type Project struct {
	Name       string   `json:"name"`
	Tech       []string `json:"tech"`
	Highlights []string `json:"highlights"`
}

// Education — запись об образовании.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// LanguageSkill — язык и уровень владения.
type LanguageSkill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Meta — оформление резюме.
type Meta struct {
	Accent       string `json:"accent"`
	IncludePhoto bool   `json:"includePhoto"`
	Lang         string `json:"lang"`
}

// CVData — полная структура данных резюме: и результат генерации,
// и вход рендера PDF.
type CVData struct {
	Basics       Basics          `json:"basics"`
	Summary      string          `json:"summary"`
	Skills       []Skill         `json:"skills"`
	Experience   []Experience    `json:"experience"`
	Projects     []Project       `json:"projects"`
	Education    []Education     `json:"education"`
	Certificates []string        `json:"certificates"`
	Languages    []LanguageSkill `json:"languages"`
	Meta         Meta            `json:"meta"`
}

// Profile — структурированный профиль, присланный пользователем.
// Совпадает по форме с CVData, но summary и highlights могут отсутствовать —
// их дополняет модель.
type Profile struct {
	FullName     string          `json:"fullName"`
	Title        string          `json:"title"`
	Location     string          `json:"location"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Links        []Link          `json:"links"`
	Experience   []Experience    `json:"experience"`
	Education    []Education     `json:"education"`
	Skills       []string        `json:"skills"`
	Projects     []Project       `json:"projects"`
	Certificates []string        `json:"certificates"`
	Languages    []LanguageSkill `json:"languages"`
}
