package service

import (
	"movie-tickets-cli/logging"
	"movie-tickets-cli/model"
)

var log = logging.New("service")

var (
	builtinDays  = []string{"Today", "Tomorrow", "Wed", "Thu", "Fri"}
	builtinTimes = []string{"11:30", "13:45", "16:00", "18:20", "20:40", "23:00"}
)

// BuiltinMovies returns the catalog shipped with the binary. It is used when
// no catalog endpoint is configured or reachable.
func BuiltinMovies() []model.Movie {
	entries := []struct {
		id, title, genre, synopsis string
	}{
		{"la-la-land", "La La Land", "Drama/Romance", "A jazz pianist and an aspiring actress fall in love while chasing their dreams in **Los Angeles**."},
		{"paterson", "Paterson", "Drama/Comedy", "A week in the life of a bus driver who writes poetry in a small notebook."},
		{"jackie", "Jackie", "Drama/Biography", "The days that followed the assassination of **John F. Kennedy**, told through his widow."},
		{"lo-and-behold", "Lo and Behold Reveries of the Connected World", "Documentary", "A documentary on the past, present and future of the internet."},
		{"10-cloverfield-lane", "10 Cloverfield Lane", "Drama/Horror", "A woman wakes up in an underground bunker after a car accident."},
		{"birth-of-a-nation", "The Birth of a Nation", "Drama/Biography", "Nat Turner leads a liberation movement in 1831 Virginia."},
		{"manchester-by-the-sea", "Manchester by the Sea", "Drama", "An uncle is made guardian of his teenage nephew after his brother dies."},
		{"moonlight", "Moonlight", "Drama", "Three chapters in the life of a young man growing up in Miami."},
		{"arrival", "Arrival", "Drama/Mystery", "A linguist works with the military to communicate with alien lifeforms."},
	}

	movies := make([]model.Movie, 0, len(entries))
	for _, e := range entries {
		movies = append(movies, model.Movie{
			Id:       e.id,
			Title:    e.title,
			Genre:    e.genre,
			Poster:   "builtin://" + e.id,
			Synopsis: e.synopsis,
			Days:     append([]string(nil), builtinDays...),
			Times:    append([]string(nil), builtinTimes...),
		})
	}
	return movies
}
