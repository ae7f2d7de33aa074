package main

import (
	"fmt"
	"os"

	"github.com/avelars/pantrylist-backend/internal/app"
	"github.com/avelars/pantrylist-backend/internal/utils"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	port := utils.GetEnv("PORT", "8080", application.Log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := application.Run(":" + port); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
