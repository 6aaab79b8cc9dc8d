package main

import (
	"flag"
	"log"

	"inkwell/config"
	"inkwell/database"
	"inkwell/seed"
)

func main() {
	users := flag.Int("users", 8, "number of users to create")
	posts := flag.Int("posts", 6, "posts per user")
	flag.Parse()

	cfg := config.LoadConfig()
	db := database.Connect(cfg)

	if err := seed.Run(db, *users, *posts); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
