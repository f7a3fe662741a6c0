package models

import (
	"encoding/json"
	"strings"
)

// Project represents a single portfolio item
type Project struct {
	ID           uint   `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Title        string `json:"title" db:"title" gorm:"column:title;type:varchar(255);not null"`
	Description  string `json:"description" db:"description" gorm:"column:description;type:text"`
	Technologies string `json:"technologies" db:"technologies" gorm:"column:technologies;type:varchar(255)"`
	ProjectURL   string `json:"project_url" db:"project_url" gorm:"column:project_url;type:varchar(255)"`
	GithubURL    string `json:"github_url" db:"github_url" gorm:"column:github_url;type:varchar(255)"`
}

// TableName keeps the table name the portfolio schema has always used
func (Project) TableName() string {
	return "Projects"
}

// ProjectFields holds every mutable column of a project. Inserts and updates
// always carry the full set; a field left out of a request is stored as "".
type ProjectFields struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	ProjectURL   string `json:"project_url"`
	GithubURL    string `json:"github_url"`
}

// HasTitle reports whether the title survives trimming
func (f ProjectFields) HasTitle() bool {
	return strings.TrimSpace(f.Title) != ""
}

// Fields returns the mutable part of p
func (p Project) Fields() ProjectFields {
	return ProjectFields{
		Title:        p.Title,
		Description:  p.Description,
		Technologies: p.Technologies,
		ProjectURL:   p.ProjectURL,
		GithubURL:    p.GithubURL,
	}
}

// Apply overwrites every mutable column of p with f. The id is left alone.
func (p *Project) Apply(f ProjectFields) {
	p.Title = f.Title
	p.Description = f.Description
	p.Technologies = f.Technologies
	p.ProjectURL = f.ProjectURL
	p.GithubURL = f.GithubURL
}

// TechnologyList splits the comma separated technologies into trimmed tags
func (p Project) TechnologyList() []string {
	tags := []string{}
	for _, tech := range strings.Split(p.Technologies, ",") {
		if tech = strings.TrimSpace(tech); tech != "" {
			tags = append(tags, tech)
		}
	}
	return tags
}

// MarshalJSON adds the parsed technology_list next to the stored columns
func (p Project) MarshalJSON() ([]byte, error) {
	type project Project
	return json.Marshal(struct {
		project
		TechnologyList []string `json:"technology_list"`
	}{
		project:        project(p),
		TechnologyList: p.TechnologyList(),
	})
}

// SampleProjects are seeded into an empty table when sample data is enabled
func SampleProjects() []ProjectFields {
	return []ProjectFields{
		{
			Title:        "Project Portfolio Tracker",
			Description:  "A full-stack web application to manage and showcase project portfolios",
			Technologies: "React.js, Node.js, Express.js, SQLite",
			ProjectURL:   "https://example.com",
			GithubURL:    "https://github.com/user/portfolio-tracker",
		},
		{
			Title:        "E-commerce Website",
			Description:  "Online shopping platform with user authentication and payment integration",
			Technologies: "HTML, CSS, JavaScript, PHP, MySQL",
			ProjectURL:   "https://shop-example.com",
			GithubURL:    "https://github.com/user/ecommerce-site",
		},
		{
			Title:        "Weather App",
			Description:  "Real-time weather application with location-based forecasts",
			Technologies: "React, OpenWeather API, CSS3",
			ProjectURL:   "https://weather-app-demo.com",
			GithubURL:    "https://github.com/user/weather-app",
		},
	}
}
