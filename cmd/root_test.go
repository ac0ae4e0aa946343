package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-tickets-cli/config"
	"movie-tickets-cli/model"
	"movie-tickets-cli/store"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root+"/config")
	t.Setenv("XDG_CACHE_HOME", root+"/cache")
	t.Setenv("MOVIE_TICKETS_CATALOG_URL", "")
	t.Setenv("MOVIE_TICKETS_OFFLINE", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd("1.2.3", "abc123")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "movie-tickets-cli 1.2.3 (abc123)\n", out)
}

func TestBookingsCmd_Empty(t *testing.T) {
	setTestDirs(t)

	out, err := execute(t, "bookings")
	require.NoError(t, err)
	assert.Contains(t, out, "No bookings yet.")
}

func TestBookingsCmd_ListsHistory(t *testing.T) {
	setTestDirs(t)

	bookedAt := time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, store.RememberBooking(model.Booking{Code: "OLDER123", MovieTitle: "Jackie", Day: "Today", Time: "11:30", BookedAt: bookedAt}))
	require.NoError(t, store.RememberBooking(model.Booking{Code: "NEWER456", MovieTitle: "Arrival", Day: "Fri", Time: "20:40", BookedAt: bookedAt}))

	out, err := execute(t, "bookings")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "Arrival")
	assert.Less(t, bytes.Index([]byte(out), []byte("NEWER456")), bytes.Index([]byte(out), []byte("OLDER123")))
}

func TestResolveConfig_FlagsOverrideEnvAndFile(t *testing.T) {
	setTestDirs(t)
	require.NoError(t, config.Save(config.Config{CatalogURL: "https://file.test", AnimationMillis: 500}))
	t.Setenv("MOVIE_TICKETS_CATALOG_URL", "https://env.test")

	root := newRootCmd("dev", "none")
	require.NoError(t, root.ParseFlags([]string{"--offline", "--animation-ms", "120"}))
	opts := rootOptionsFrom(t, root)

	cfg, err := resolveConfig(root, opts)
	require.NoError(t, err)
	assert.Equal(t, "https://env.test", cfg.CatalogURL)
	assert.True(t, cfg.Offline)
	assert.Equal(t, 120, cfg.AnimationMillis)

	require.NoError(t, root.ParseFlags([]string{"--catalog-url", "https://flag.test"}))
	cfg, err = resolveConfig(root, rootOptionsFrom(t, root))
	require.NoError(t, err)
	assert.Equal(t, "https://flag.test", cfg.CatalogURL)
}

func TestResolveConfig_RejectsBadDuration(t *testing.T) {
	setTestDirs(t)

	root := newRootCmd("dev", "none")
	require.NoError(t, root.ParseFlags([]string{"--animation-ms", "0"}))

	_, err := resolveConfig(root, rootOptionsFrom(t, root))
	assert.True(t, errors.Is(err, config.ErrInvalidDuration))
}

// rootOptionsFrom reads back the options bound to root's flags.
func rootOptionsFrom(t *testing.T, root *cobra.Command) *rootOptions {
	t.Helper()
	flags := root.Flags()
	catalogURL, err := flags.GetString("catalog-url")
	require.NoError(t, err)
	offline, err := flags.GetBool("offline")
	require.NoError(t, err)
	ms, err := flags.GetInt("animation-ms")
	require.NoError(t, err)
	return &rootOptions{catalogURL: catalogURL, offline: offline, animationMS: ms}
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateCatalogURL(""))
	assert.NoError(t, validateCatalogURL("https://example.test/movies.json"))
	assert.Error(t, validateCatalogURL("ftp://example.test"))
	assert.Error(t, validateCatalogURL("https://"))

	assert.NoError(t, validateMillis("250"))
	assert.Error(t, validateMillis("fast"))
	assert.ErrorIs(t, validateMillis("0"), config.ErrInvalidDuration)
}

func TestConfigureCmd_KeepsEnvOverridesOutOfFile(t *testing.T) {
	setTestDirs(t)
	require.NoError(t, config.Save(config.Config{CatalogURL: "https://file.test", AnimationMillis: 300}))
	t.Setenv("MOVIE_TICKETS_CATALOG_URL", "https://env.test")
	t.Setenv("MOVIE_TICKETS_OFFLINE", "true")

	prev := runPrompt
	t.Cleanup(func() { runPrompt = prev })
	var defaults []string
	runPrompt = func(p promptui.Prompt) (string, error) {
		defaults = append(defaults, p.Default)
		if p.Label == "Animation duration (ms)" {
			return "450", nil
		}
		return p.Default, nil
	}

	out, err := execute(t, "configure")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved")
	assert.Equal(t, []string{"https://file.test", "300"}, defaults)

	saved, err := config.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, config.Config{CatalogURL: "https://file.test", AnimationMillis: 450}, saved)
}
