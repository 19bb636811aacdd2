package model

import "time"

// Movie represents a film in the catalog.  Shows reference a movie
// together with the screen on which it is scheduled.  This struct
// corresponds to a row in the `movies` table.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title of the movie.
//  Description – synopsis shown on browse pages.
//  Genre       – free-form genre label (e.g. "Drama").
//  DurationMin – runtime in minutes.
//  Rating      – certification label (e.g. "PG-13"); optional.
//  CreatedAt   – timestamp when the movie was added.
//  UpdatedAt   – timestamp of last update.
type Movie struct {
    ID          uint64    // movies.id
    Title       string    // movies.title
    Description string    // movies.description
    Genre       string    // movies.genre
    DurationMin uint32    // movies.duration_min
    Rating      string    // movies.rating
    CreatedAt   time.Time // movies.created_at
    UpdatedAt   time.Time // movies.updated_at
}
