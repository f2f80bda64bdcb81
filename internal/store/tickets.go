package store

import (
	"context"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

// InsertTicket creates a tentative ticket row linked to a booking and an
// assigned seat (spec.md §4.4.1 step 6). PNR/ticket_number is not yet issued
// at hold time; TicketNumber is set at confirmation via UpdateTicketNumber.
func (s *Store) InsertTicket(ctx context.Context, tx database.Tx, t *domain.Ticket) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tickets (id, booking_id, seat_id, ticket_number, passenger_name, passenger_age, passenger_gender)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`,
		t.ID, t.BookingID, t.SeatID, t.TicketNumber, t.PassengerName, t.PassengerAge, t.PassengerGender)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "insert ticket", err)
	}
	return nil
}

// UpdateTicketNumber assigns the ticket number at confirmation (spec.md
// §4.4.2 step 4 "Assign ticket numbers").
func (s *Store) UpdateTicketNumber(ctx context.Context, tx database.Tx, ticketID int64, ticketNumber string) error {
	_, err := tx.ExecContext(ctx, `UPDATE tickets SET ticket_number = $1 WHERE id = $2`, ticketNumber, ticketID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "assign ticket number", err)
	}
	return nil
}

// ListTicketsByBooking returns every ticket issued under a booking.
func (s *Store) ListTicketsByBooking(ctx context.Context, tx database.Tx, bookingID int64) ([]*domain.Ticket, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, booking_id, seat_id, COALESCE(ticket_number, ''), passenger_name, passenger_age, passenger_gender
		 FROM tickets WHERE booking_id = $1 ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list tickets", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.BookingID, &t.SeatID, &t.TicketNumber,
			&t.PassengerName, &t.PassengerAge, &t.PassengerGender); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan ticket", err)
		}
		tickets = append(tickets, &t)
	}
	return tickets, rows.Err()
}
