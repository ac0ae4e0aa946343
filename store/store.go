package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"movie-tickets-cli/model"
)

const (
	appDirName      = "movie-tickets-cli"
	catalogCacheTTL = time.Hour
	maxBookings     = 20
)

var now = time.Now

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type bookingHistory struct {
	Bookings []model.Booking `json:"bookings"`
}

// LoadCatalogCache returns the cached movie list and whether it is still fresh.
func LoadCatalogCache() ([]model.Movie, bool, error) {
	path, err := cachePath("catalog.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Movie](path)
	if err != nil {
		return nil, false, err
	}
	if len(cache.Data) == 0 {
		return nil, false, nil
	}
	return cache.Data, now().Sub(cache.UpdatedAt) <= catalogCacheTTL, nil
}

func SaveCatalogCache(movies []model.Movie) error {
	path, err := cachePath("catalog.json")
	if err != nil {
		return err
	}
	return saveCache(path, movies)
}

// LoadBookings returns the booking history, most recent first.
func LoadBookings() ([]model.Booking, error) {
	path, err := configPath("bookings.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history bookingHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid booking history format")
	}
	return history.Bookings, nil
}

// RememberBooking puts booking at the front of the history. Older entries
// with the same code are replaced.
func RememberBooking(booking model.Booking) error {
	history, _ := LoadBookings()
	next := []model.Booking{booking}

	for _, existing := range history {
		if existing.Code == booking.Code && existing.Code != "" {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxBookings {
			break
		}
	}

	return saveBookings(next)
}

// CachePath returns the path of a file in the application cache directory.
func CachePath(name string) (string, error) {
	return cachePath(name)
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func saveBookings(bookings []model.Booking) error {
	path, err := configPath("bookings.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(bookingHistory{Bookings: bookings}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}
