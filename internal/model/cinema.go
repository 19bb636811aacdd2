package model

import "time"

// Cinema represents a movie theatre venue.  A cinema contains one
// or more screens.  This struct corresponds to a row in the
// `cinemas` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique name of the cinema.
//  City      – city the cinema is located in; used by show search.
//  CreatedAt – timestamp when the cinema was created.
//  UpdatedAt – timestamp of last update.
type Cinema struct {
    ID        uint64    // cinemas.id
    Name      string    // cinemas.name
    City      string    // cinemas.city
    CreatedAt time.Time // cinemas.created_at
    UpdatedAt time.Time // cinemas.updated_at
}
