package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"masterboxer.com/habit-builder/handlers"
	"masterboxer.com/habit-builder/services"
)

func main() {
	godotenv.Load()

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		log.Fatal("GOOGLE_CLOUD_PROJECT not set")
	}
	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credentialsPath == "" {
		log.Fatal("FIREBASE_CREDENTIALS_PATH not set")
	}

	if err := services.InitFirestore(projectID, credentialsPath); err != nil {
		log.Fatal("GenerateOccurrences: Firestore init failed: ", err)
	}
	store, err := services.GetFirestoreClient()
	if err != nil {
		log.Fatal("GenerateOccurrences: Firestore client unavailable: ", err)
	}

	log.Println("⏰ Running generate-occurrences job")

	run := handlers.NewJobRun(time.Now(), store, nil)
	result, err := handlers.GenerateOccurrences(context.Background(), run)
	if err != nil {
		log.Fatal("GenerateOccurrences: job failed: ", err)
	}

	log.Printf("✅ Generate-occurrences job finished | %s", result)
}
