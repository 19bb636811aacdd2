package model

import "time"

// Screen represents an auditorium inside a cinema.  Screens own the
// physical seat layout; shows are scheduled on a screen.  This
// struct corresponds to a row in the `screens` table.
//
// Fields:
//  ID        – primary key identifier.
//  CinemaID  – cinema this screen belongs to.
//  Name      – screen name unique within the cinema (e.g. "Audi 2").
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Screen struct {
    ID        uint64    // screens.id
    CinemaID  uint64    // screens.cinema_id
    Name      string    // screens.name
    CreatedAt time.Time // screens.created_at
    UpdatedAt time.Time // screens.updated_at
}

// Seat represents a physical seat within a screen.  RowLabel and
// SeatNumber identify its position; SeatType indicates its class.
//
// Fields:
//  ID         – primary key identifier.
//  ScreenID   – screen this seat belongs to.
//  RowLabel   – row label such as A, B or AA.
//  SeatNumber – 1-based position within the row.
//  SeatType   – STANDARD, VIP or ACCESSIBLE.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
    ID         uint64    // seats.id
    ScreenID   uint64    // seats.screen_id
    RowLabel   string    // seats.row_label
    SeatNumber uint32    // seats.seat_number
    SeatType   string    // seats.seat_type
    CreatedAt  time.Time // seats.created_at
    UpdatedAt  time.Time // seats.updated_at
}
