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

	if err := services.InitFirebase(credentialsPath); err != nil {
		log.Printf("SendReminders: Firebase init failed: %v", err)
	}
	if err := services.InitFirestore(projectID, credentialsPath); err != nil {
		log.Fatal("SendReminders: Firestore init failed: ", err)
	}

	store, err := services.GetFirestoreClient()
	if err != nil {
		log.Fatal("SendReminders: Firestore client unavailable: ", err)
	}
	fcm, err := services.GetMessagingClient()
	if err != nil {
		log.Fatal("SendReminders: Messaging client unavailable: ", err)
	}

	log.Println("⏰ Running send-reminders job")

	run := handlers.NewJobRun(time.Now(), store, fcm)
	result, err := handlers.SendReminders(context.Background(), run)
	if err != nil {
		log.Fatal("SendReminders: job failed: ", err)
	}

	log.Printf("✅ Send-reminders job finished | %s", result)
}
