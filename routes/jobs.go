package routes

import (
	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/messaging"
	"github.com/gorilla/mux"

	"masterboxer.com/habit-builder/handlers"
)

func CreateJobRoutes(store *firestore.Client, fcm *messaging.Client, router *mux.Router) *mux.Router {

	router.HandleFunc("/jobs/habit", handlers.HabitJobs(store, fcm)).Methods("POST")

	return router
}
