package scheduler

import (
	"os"
	"testing"

	"github.com/vfg2006/ads-warehouse-sync/pkg/log"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}
