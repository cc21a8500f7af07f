package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/ugaemi/parkingdrive-server/internal/game"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "eighty")
	assert.Equal(t, 8080, Load().Port)
}

// runBoard parses args and the environment through BoardFlags.
func runBoard(t *testing.T, args ...string) (game.BoardConfig, error) {
	t.Helper()
	var got game.BoardConfig
	cmd := &cli.Command{
		Name:  "test",
		Flags: BoardFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			got = BoardFromCommand(cmd)
			return nil
		},
	}
	err := cmd.Run(context.Background(), append([]string{"test"}, args...))
	return got, err
}

func TestBoardFlags_Defaults(t *testing.T) {
	for _, key := range []string{"BOARD_WIDTH", "CAR_SPEED", "TICK_PERIOD", "OBSTACLE_COUNT", "LIVES"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	got, err := runBoard(t)
	require.NoError(t, err)
	assert.Equal(t, game.DefaultBoardConfig(), got)
}

func TestBoardFlags_Overrides(t *testing.T) {
	t.Setenv("BOARD_WIDTH", "1024")
	t.Setenv("TICK_PERIOD", "20ms")
	t.Setenv("CAR_SPEED", "80")

	got, err := runBoard(t, "--car-speed", "150.5", "--obstacles", "3", "--lives", "4")
	require.NoError(t, err)

	assert.Equal(t, 1024.0, got.Width, "from env")
	assert.Equal(t, 20*time.Millisecond, got.Car.TickPeriod, "from env")
	assert.Equal(t, 150.5, got.Car.Speed, "flag beats env")
	assert.Equal(t, 3, got.ObstacleCount)
	assert.Equal(t, 4, got.Lives)
	assert.NoError(t, got.Validate())
}

func TestBoardFlags_InvalidValue(t *testing.T) {
	_, err := runBoard(t, "--lives", "many")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PARKINGDRIVE_TEST_PORT=9090\nLOG_FORMAT=json\n"), 0o600))

	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("PARKINGDRIVE_TEST_PORT", "")
	os.Unsetenv("PARKINGDRIVE_TEST_PORT")

	require.NoError(t, LoadEnvFile(path))
	t.Cleanup(func() { os.Unsetenv("PARKINGDRIVE_TEST_PORT") })

	assert.Equal(t, "9090", os.Getenv("PARKINGDRIVE_TEST_PORT"))
	assert.Equal(t, "text", os.Getenv("LOG_FORMAT"), "existing variables win")
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}
