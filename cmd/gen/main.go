package main

import (
	"MediBook/internal/repository"
	"MediBook/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
