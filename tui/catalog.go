package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"movie-tickets-cli/model"
	"movie-tickets-cli/service"
	"movie-tickets-cli/store"
)

const catalogTimeout = 20 * time.Second

type catalogSource string

const (
	sourceRemote  catalogSource = "remote"
	sourceCache   catalogSource = "cache"
	sourceBuiltin catalogSource = "built-in"
)

type catalogMsg struct {
	movies  []model.Movie
	source  catalogSource
	warning error
}

func (m appModel) fetchCatalogCmd(force bool) tea.Cmd {
	client := m.client
	offline := m.offline
	return func() tea.Msg {
		return loadCatalog(context.Background(), client, offline, force)
	}
}

// loadCatalog prefers a fresh cache, then the remote endpoint, then any
// cached copy and finally the built-in movies.
func loadCatalog(ctx context.Context, client *service.Client, offline bool, force bool) catalogMsg {
	cached, fresh, err := store.LoadCatalogCache()
	if err != nil {
		log.Warn("ignoring unreadable catalog cache", "err", err)
		cached, fresh = nil, false
	}
	if !force && fresh {
		return catalogMsg{movies: cached, source: sourceCache}
	}

	if offline || client == nil || client.CatalogURL() == "" {
		if len(cached) > 0 {
			return catalogMsg{movies: cached, source: sourceCache}
		}
		return catalogMsg{movies: service.BuiltinMovies(), source: sourceBuiltin}
	}

	ctx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()

	movies, err := client.GetMovies(ctx)
	if err == nil {
		if saveErr := store.SaveCatalogCache(movies); saveErr != nil {
			log.Warn("could not cache catalog", "err", saveErr)
		}
		log.Debug("fetched catalog", "movies", len(movies), "url", client.CatalogURL())
		return catalogMsg{movies: movies, source: sourceRemote}
	}

	log.Warn("catalog fetch failed", "url", client.CatalogURL(), "err", err)
	if len(cached) > 0 {
		return catalogMsg{movies: cached, source: sourceCache, warning: err}
	}
	return catalogMsg{movies: service.BuiltinMovies(), source: sourceBuiltin, warning: err}
}
