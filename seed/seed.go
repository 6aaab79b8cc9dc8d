// Package seed populates the database with demo content for local
// development.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is set on every seeded account.
const DefaultPassword = "password123"

var categories = []models.Category{
	{Title: "Travel", Slug: "travel", Description: "Places worth the trip.", IsPublished: true},
	{Title: "Food", Slug: "food", Description: "Recipes and restaurants.", IsPublished: true},
	{Title: "Tech", Slug: "tech", Description: "Software and hardware notes.", IsPublished: true},
	{Title: "Drafts", Slug: "drafts", Description: "Not ready for readers.", IsPublished: false},
}

// Run fills an empty database with categories, users, posts, and comments.
// It is idempotent-ish: it refuses to run when users already exist.
func Run(db *gorm.DB, users, postsPerUser int) error {
	var cnt int64
	if err := db.Model(&models.User{}).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return fmt.Errorf("database already has %d users, refusing to seed", cnt)
	}

	gofakeit.Seed(0)

	cats := make([]models.Category, len(categories))
	copy(cats, categories)
	if err := db.Create(&cats).Error; err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var allUsers []models.User
	for i := 0; i < users; i++ {
		user := models.User{
			Username:  gofakeit.Username(),
			Email:     gofakeit.Email(),
			Password:  string(hashed),
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Bio:       gofakeit.Sentence(10),
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		allUsers = append(allUsers, user)
	}

	var allPosts []models.Post
	for _, user := range allUsers {
		for i := 0; i < postsPerUser; i++ {
			// A spread of past, scheduled, and unpublished posts so the
			// visibility rules have something to hide.
			pubDate := time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour)
			if rand.Intn(10) == 0 {
				pubDate = time.Now().Add(time.Duration(1+rand.Intn(14*24)) * time.Hour)
			}
			post := models.Post{
				Title:       gofakeit.Sentence(5),
				Text:        gofakeit.Paragraph(2, 4, 12, " "),
				PubDate:     pubDate,
				IsPublished: rand.Intn(10) != 0,
				AuthorID:    user.ID,
				CategoryID:  cats[rand.Intn(len(cats))].ID,
			}
			if err := db.Create(&post).Error; err != nil {
				return err
			}
			allPosts = append(allPosts, post)
		}
	}

	for _, post := range allPosts {
		for i := 0; i < rand.Intn(4); i++ {
			comment := models.Comment{
				Text:     gofakeit.Sentence(12),
				AuthorID: allUsers[rand.Intn(len(allUsers))].ID,
				PostID:   post.ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}

	log.Printf("seeded %d categories, %d users, %d posts", len(cats), len(allUsers), len(allPosts))
	return nil
}
