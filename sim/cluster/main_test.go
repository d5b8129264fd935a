package cluster

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	// Register use case types for scenario tests.
	_ "github.com/inference-sim/hazard-sim/sim/usecase"
)

func TestMain(m *testing.M) {
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./sim/cluster/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}
