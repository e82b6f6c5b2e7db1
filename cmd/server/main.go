package main

import (
	"log"

	"github.com/kimyoel/auto-cs-backend/app"
)

func main() {
	app.InitDB()
	app.InitStripe()
	router, err := app.NewRouter()
	if err != nil {
		log.Fatalf("failed to initialize router: %v", err)
	}
	router.Run("0.0.0.0:8080")
}
