package schedule

import (
	"os"
	"testing"

	"MediBook/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
