package services

import (
	"context"
	"log"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

var (
	firestoreClient  *firestore.Client
	firestoreOnce    sync.Once
	firestoreInitErr error
)

func InitFirestore(projectID, credentialsPath string) error {
	firestoreOnce.Do(func() {
		ctx := context.Background()

		log.Printf("[Firestore] Initializing client | project=%s", projectID)

		var opts []option.ClientOption
		if credentialsPath != "" {
			opts = append(opts, option.WithCredentialsFile(credentialsPath))
		}

		client, err := firestore.NewClient(ctx, projectID, opts...)
		if err != nil {
			firestoreInitErr = err
			log.Printf("[Firestore][ERROR] Failed to init client: %v", err)
			return
		}

		firestoreClient = client
		log.Println("[Firestore] Client initialized successfully")
	})

	return firestoreInitErr
}

func GetFirestoreClient() (*firestore.Client, error) {
	if firestoreClient == nil {
		log.Printf("[Firestore][ERROR] Client is nil (initError=%v)", firestoreInitErr)
		return nil, firestoreInitErr
	}
	return firestoreClient, nil
}
