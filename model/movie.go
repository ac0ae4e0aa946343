package model

import "time"

type Movie struct {
	Id       string   `json:"id"`
	Title    string   `json:"title"`
	Genre    string   `json:"genre"`
	Poster   string   `json:"poster"`
	Synopsis string   `json:"synopsis"`
	Days     []string `json:"days"`
	Times    []string `json:"times"`
}

type Catalog struct {
	Movies []Movie `json:"movies"`
}

type Booking struct {
	Code       string    `json:"code"`
	MovieId    string    `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	Day        string    `json:"day"`
	Time       string    `json:"time"`
	BookedAt   time.Time `json:"booked_at"`
}
