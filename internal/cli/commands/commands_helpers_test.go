package commands

import (
	"path/filepath"
	"testing"

	"BrainrotKeeper/internal/config"
)

// newTestConfig направляет токен во временный каталог, чтобы тесты не трогали
// настоящий конфиг пользователя.
func newTestConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL: serverURL,
		TokenFile: filepath.Join(t.TempDir(), "brainrotkeeper", "token"),
	}
}
