package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the seed data set
type Fixtures struct {
	Users  []UserFixture   `yaml:"users"`
	Posts  []PostFixture   `yaml:"posts"`
	Advice []AdviceFixture `yaml:"advice"`
	Events []EventFixture  `yaml:"events"`
}

// UserFixture is a member and their pets
type UserFixture struct {
	Email        string       `yaml:"email"`
	Password     string       `yaml:"password"`
	FirstName    string       `yaml:"firstName"`
	LastName     string       `yaml:"lastName"`
	UserName     string       `yaml:"userName"`
	Bio          string       `yaml:"bio"`
	City         string       `yaml:"city"`
	State        string       `yaml:"state"`
	Country      string       `yaml:"country"`
	Discoverable bool         `yaml:"discoverable"`
	Pets         []PetFixture `yaml:"pets"`
}

// PetFixture is a pet owned by the enclosing user
type PetFixture struct {
	Name     string `yaml:"name"`
	Breed    string `yaml:"breed"`
	Age      string `yaml:"age"`
	Bio      string `yaml:"bio"`
	ImageURL string `yaml:"imageUrl"`
}

// PostFixture is a feed post. Author is a user email.
type PostFixture struct {
	Author   string `yaml:"author"`
	Content  string `yaml:"content"`
	ImageURL string `yaml:"imageUrl"`
}

// AdviceFixture is an advice board thread. Author is a user email.
type AdviceFixture struct {
	Author  string `yaml:"author"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// EventFixture is a meetup InDays days from the seed run. Organizer is a user email.
type EventFixture struct {
	Organizer   string `yaml:"organizer"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	InDays      int    `yaml:"inDays"`
	Location    string `yaml:"location"`
	PetType     string `yaml:"petType"`
}

// LoadFixtures reads fixtures from path, or the embedded set when path is empty
func LoadFixtures(path string) (*Fixtures, error) {
	data := defaultFixtures
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
		data = b
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes a YAML fixture document
func ParseFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, u := range fx.Users {
		if u.Email == "" {
			return nil, fmt.Errorf("fixture user %d has no email", i)
		}
	}
	return &fx, nil
}
