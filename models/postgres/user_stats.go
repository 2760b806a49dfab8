package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/*
 * 'UserStats' aggregates a profile's play history. PerGame counts plays per
 * game name and drives FavoriteGame.
 */
type UserStats struct {
	UserID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"userId"`
	GamesPlayed  int            `gorm:"not null" json:"gamesPlayed"`
	GamesWon     int            `gorm:"not null" json:"gamesWon"`
	TotalPoints  int            `gorm:"not null" json:"totalPoints"`
	FavoriteGame string         `gorm:"size:50" json:"favoriteGame,omitempty"`
	LastPlayedAt *time.Time     `json:"lastPlayedAt,omitempty"`
	PerGame      datatypes.JSON `gorm:"type:jsonb" json:"perGame"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// PerGameCounts decodes PerGame; an empty column is an empty map.
func (s *UserStats) PerGameCounts() (map[string]int, error) {
	counts := map[string]int{}
	if len(s.PerGame) == 0 {
		return counts, nil
	}
	if err := json.Unmarshal(s.PerGame, &counts); err != nil {
		return nil, fmt.Errorf("decode per-game stats: %w", err)
	}
	return counts, nil
}

// Record adds one finished game. The favorite game only changes when another
// game strictly overtakes it.
func (s *UserStats) Record(game string, won bool, points int, at time.Time) error {
	counts, err := s.PerGameCounts()
	if err != nil {
		return err
	}

	counts[game]++
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	s.PerGame = datatypes.JSON(raw)

	s.GamesPlayed++
	if won {
		s.GamesWon++
	}
	s.TotalPoints += points
	played := at.UTC()
	s.LastPlayedAt = &played

	if s.FavoriteGame == "" || counts[game] > counts[s.FavoriteGame] {
		s.FavoriteGame = game
	}
	return nil
}
