// Command api runs the placement portal HTTP server.
package main

import (
	"log"

	"github.com/wonder-codes/Placement-Portal-Project/internal/server"
)

// @title Placement Portal API
// @version 1.0
// @description Campus placement portal for students, recruiters and the placement office.
// @BasePath /api/v1
func main() {
	srv := server.NewServer()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server stopped: %s", err)
	}
}
