package model

import "time"

// Show lifecycle states stored in shows.status.
const (
    ShowScheduled = "SCHEDULED"
    ShowCancelled = "CANCELLED"
    ShowFinished  = "FINISHED"
)

// Show represents a scheduled screening of a movie on a particular
// screen.  Shows carry the schedule and default pricing; the
// per-seat inventory lives in show_seats.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie being screened.
//  ScreenID       – screen the show takes place on.
//  StartsAt       – when the show begins (UTC).
//  EndsAt         – when the show ends (must be after StartsAt).
//  BasePriceCents – default price in cents for seats without a
//                   specific override.
//  Status         – current state (SCHEDULED, CANCELLED, FINISHED).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Show struct {
    ID             uint64    // shows.id
    MovieID        uint64    // shows.movie_id
    ScreenID       uint64    // shows.screen_id
    StartsAt       time.Time // shows.starts_at
    EndsAt         time.Time // shows.ends_at
    BasePriceCents uint32    // shows.base_price_cents
    Status         string    // shows.status
    CreatedAt      time.Time // shows.created_at
    UpdatedAt      time.Time // shows.updated_at
}
