package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Category represents a knowledge document category
type Category string

const (
	CategoryTeams      Category = "teams"
	CategoryPlayers    Category = "players"
	CategoryMatches    Category = "matches"
	CategoryLeagues    Category = "leagues"
	CategoryBetting    Category = "betting"
	CategoryStatistics Category = "statistics"
)

// AllCategories returns every valid knowledge category
func AllCategories() []Category {
	return []Category{
		CategoryTeams,
		CategoryPlayers,
		CategoryMatches,
		CategoryLeagues,
		CategoryBetting,
		CategoryStatistics,
	}
}

// Validate checks if the Category is one of the fixed set
func (c Category) Validate() error {
	switch c {
	case CategoryTeams, CategoryPlayers, CategoryMatches,
		CategoryLeagues, CategoryBetting, CategoryStatistics:
		return nil
	}
	return goerr.New("invalid knowledge category", goerr.V("category", string(c)))
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}
