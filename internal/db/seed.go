package db

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedFrats = []string{"AED", "AKP", "DEM", "DKA", "DSP", "PAD", "SEP", "TT"}

// SeedTestData resets the database and populates it with a demo pool and
// profiles for local development.
//
// Behavior:
//  1. Clears every table.
//  2. Creates pool "abc123" (active) with 20 members (10 men, 10 women),
//     each with wide-open preferences.
//  3. Generates swipes with ~70% likes; every 3rd decision guarantees a
//     reciprocal like so that matches and chats exist out of the box.
func SeedTestData(database *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{
		"date_confirmations", "messages", "chats", "matches",
		"swipes", "preferences", "profiles", "pool_configs",
	} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	pool := PoolConfig{Code: "abc123", Status: PoolStatusActive, DisplayCount: 128}
	if err := database.Create(&pool).Error; err != nil {
		return fmt.Errorf("failed to seed pool: %w", err)
	}

	ids := make([]string, 0, 20)
	for i := 1; i <= 20; i++ {
		gender := GenderMen
		interest := InterestWomen
		if i > 10 {
			gender = GenderWomen
			interest = InterestMen
		}

		id := uuid.NewString()
		ids = append(ids, id)

		profile := Profile{
			ID:           id,
			Email:        fmt.Sprintf("user%d@example.com", i),
			Name:         fmt.Sprintf("User %d", i),
			Age:          19 + r.Intn(8),
			Gender:       gender,
			Frat:         seedFrats[r.Intn(len(seedFrats))],
			HeightCM:     155 + r.Intn(40),
			InterestedIn: interest,
			OneLiner:     "here for the plot",
			Photos:       []string{"p1.jpg", "p2.jpg", "p3.jpg"},
			DatingPool:   pool.Code,
		}
		if err := database.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}

		pref := Preference{
			UserID:       id,
			AgeMin:       18,
			AgeMax:       35,
			HeightMin:    140,
			HeightMax:    210,
			InterestedIn: interest,
		}
		if err := database.Create(&pref).Error; err != nil {
			return fmt.Errorf("failed to seed preference: %w", err)
		}
	}
	log.Println("Seeded 20 profiles.")

	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "swiper_id"}, {Name: "swipee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"decision", "updated_at"}),
	}

	counter := 0
	for i, swiper := range ids {
		for j := 0; j < 8; j++ {
			swipee := ids[r.Intn(len(ids))]
			if swipee == swiper {
				continue
			}
			// men swipe on women and vice versa, matching the seeded interests
			if (i < 10) == (indexOf(ids, swipee) < 10) {
				continue
			}

			decision := DecisionPass
			if r.Intn(100) < 70 {
				decision = DecisionLike
			}

			if counter%3 == 0 {
				decision = DecisionLike
				recip := Swipe{SwiperID: swipee, SwipeeID: swiper, Decision: DecisionLike}
				database.Clauses(upsert).Create(&recip)
			}

			swipe := Swipe{SwiperID: swiper, SwipeeID: swipee, Decision: decision}
			if err := database.Clauses(upsert).Create(&swipe).Error; err != nil {
				return fmt.Errorf("failed to seed swipe: %w", err)
			}
			counter++

			if decision != DecisionLike {
				continue
			}
			var back int64
			database.Model(&Swipe{}).
				Where("swiper_id = ? AND swipee_id = ? AND decision = ?", swipee, swiper, DecisionLike).
				Count(&back)
			if back == 0 {
				continue
			}

			userA, userB := swiper, swipee
			if strings.Compare(userA, userB) > 0 {
				userA, userB = userB, userA
			}
			match := Match{ID: uuid.NewString(), UserA: userA, UserB: userB}
			res := database.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
				DoNothing: true,
			}).Create(&match)
			if res.Error == nil && res.RowsAffected > 0 {
				chat := Chat{ID: uuid.NewString(), MatchID: match.ID}
				database.Create(&chat)
			}
		}
	}

	return nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
