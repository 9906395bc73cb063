package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"masterboxer.com/habit-builder/routes"
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
		log.Printf("Server: Firebase init failed: %v", err)
	}
	if err := services.InitFirestore(projectID, credentialsPath); err != nil {
		log.Fatal("Server: Firestore init failed: ", err)
	}

	store, err := services.GetFirestoreClient()
	if err != nil {
		log.Fatal("Server: Firestore client unavailable: ", err)
	}
	fcm, _ := services.GetMessagingClient()

	router := mux.NewRouter()
	routes.CreateJobRoutes(store, fcm, router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Habit job server listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
