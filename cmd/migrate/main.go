package main

import (
	"database/sql"
	"flag"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/socialflow/configs"
	"github.com/maheshrc27/socialflow/internal/migrations"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		log.Fatal("Usage: migrate COMMAND\n\nCommands:\n  up\n  down\n  status")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}
	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := args[0]
	switch command {
	case "up":
		err = migrations.Up(db)
	case "down":
		err = migrations.Down(db)
	case "status":
		err = migrations.Status(db)
	default:
		log.Fatalf("Unknown command: %s", command)
	}
	if err != nil {
		log.Fatalf("Migration %s failed: %v", command, err)
	}
}
