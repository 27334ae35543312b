package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/studyhub/api/internal/config"
	"github.com/studyhub/api/internal/model"
	"github.com/studyhub/api/internal/pkg/database"
	"github.com/studyhub/api/internal/pkg/utils"
	"github.com/studyhub/api/internal/repository"
	"go.uber.org/zap"
)

func main() {
	log.Println("Starting database seed...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := zap.NewNop()
	db, err := database.NewPostgres(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewStudyRoomRepository(db)
	postRepo := repository.NewPostRepository(db)

	log.Println("Creating users...")
	users := []struct {
		username string
		email    string
		password string
	}{
		{"alice", "alice@example.com", "password123"},
		{"bob", "bob@example.com", "password123"},
		{"charlie", "charlie@example.com", "password123"},
	}

	var createdUsers []*model.User
	for _, u := range users {
		hash, _ := utils.HashPassword(u.password)
		user := &model.User{
			Username:     u.username,
			Email:        u.email,
			PasswordHash: hash,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Printf("Skipping user %s: %v", u.username, err)
			continue
		}
		createdUsers = append(createdUsers, user)
	}
	if len(createdUsers) == 0 {
		log.Fatal("No users created, aborting")
	}

	log.Println("Creating study rooms...")
	day := func(offset int) time.Time {
		d := time.Now().UTC().AddDate(0, 0, offset)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	at := func(d time.Time, hour, minute int) sql.NullTime {
		return sql.NullTime{
			Time:  time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC),
			Valid: true,
		}
	}

	rooms := []*model.StudyRoom{
		{
			Name:        "Algorithms study group",
			Description: sql.NullString{String: "Weekly dynamic programming session", Valid: true},
			Capacity:    8,
			CreatorID:   createdUsers[0].ID,
			Date:        sql.NullTime{Time: day(1), Valid: true},
			StartTime:   at(day(1), 9, 0),
			EndTime:     at(day(1), 10, 30),
			Location:    sql.NullString{String: "Library room 204", Valid: true},
			Mode:        sql.NullString{String: "in-person", Valid: true},
		},
		{
			Name:      "Statistics exam prep",
			Capacity:  12,
			CreatorID: createdUsers[1%len(createdUsers)].ID,
			Date:      sql.NullTime{Time: day(2), Valid: true},
			StartTime: at(day(2), 14, 0),
			// No end time: readers should fall back to 00:00
			Location: sql.NullString{String: "Online", Valid: true},
			Mode:     sql.NullString{String: "online", Valid: true},
		},
	}

	for _, room := range rooms {
		if err := roomRepo.Create(ctx, room); err != nil {
			log.Printf("Skipping room %s: %v", room.Name, err)
			continue
		}

		post := &model.Post{
			RoomID:   room.RoomID,
			AuthorID: room.CreatorID,
			Content:  "Welcome to " + room.Name,
		}
		if err := postRepo.Create(ctx, post); err != nil {
			log.Printf("Skipping welcome post for %s: %v", room.Name, err)
		}
	}

	log.Println("Seed completed")
}
