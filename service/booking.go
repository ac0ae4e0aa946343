package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"movie-tickets-cli/model"
)

const bookingCodeLength = 8

var newUUID = uuid.NewRandom

// NewBookingCode returns a short upper-case confirmation code.
func NewBookingCode() (string, error) {
	id, err := newUUID()
	if err != nil {
		return "", err
	}
	code := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return code[:bookingCodeLength], nil
}

// Book validates a selection and produces a booking for it.
func Book(movie model.Movie, dayIndex int, timeIndex *int, now time.Time) (model.Booking, error) {
	if timeIndex == nil {
		return model.Booking{}, ErrNoShowtime
	}
	if dayIndex < 0 || dayIndex >= len(movie.Days) {
		return model.Booking{}, errors.New("selected day is not available")
	}
	if *timeIndex < 0 || *timeIndex >= len(movie.Times) {
		return model.Booking{}, errors.New("selected showtime is not available")
	}
	code, err := NewBookingCode()
	if err != nil {
		return model.Booking{}, err
	}
	return model.Booking{
		Code:       code,
		MovieId:    movie.Id,
		MovieTitle: movie.Title,
		Day:        movie.Days[dayIndex],
		Time:       movie.Times[*timeIndex],
		BookedAt:   now,
	}, nil
}

// ErrNoShowtime is returned by Book when no showtime was chosen.
var ErrNoShowtime = errors.New("please select show time")
