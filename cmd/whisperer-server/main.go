// Package main PDF Whisperer API Server
//
//	@title			PDF Whisperer API
//	@version		1.0
//	@description	Upload documents, chat about them, and edit them in place with natural-language instructions
//
//	@host		localhost:8000
//	@BasePath	/
package main

import (
	"log"

	_ "pdf-whisperer/docs" // This imports the docs package to initialize swagger
	"pdf-whisperer/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	log.Println("Starting PDF Whisperer server...")
	srv, err := server.NewServer()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
