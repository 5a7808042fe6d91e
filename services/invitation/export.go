package invitation

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"nikahlink/models"
)

// csvDate renders timestamps the way the dashboard always exported them
// (id-ID day/month/year, no leading zeros).
func csvDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2/1/2006")
}

// guestExportStatus reduces a guest record to the historical status column.
func guestExportStatus(g models.Guest) string {
	switch {
	case g.RSVPStatus == models.RSVPConfirmed || g.RSVPStatus == models.RSVPDeclined:
		return "Konfirmasi"
	case g.OpenedAt != nil:
		return "Dibuka"
	default:
		return "Pending"
	}
}

// ExportGuestsCSV renders the invitation's guest list as a CSV download,
// keeping the column layout the dashboard has always produced.
func (s *DefaultInvitationService) ExportGuestsCSV(userID, invitationID string) ([]byte, error) {
	if _, err := s.requireOwned(userID, invitationID); err != nil {
		return nil, err
	}
	guests, err := s.Invitations.GetGuests(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests of %s: %w", invitationID, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"No", "Nama", "No. WhatsApp", "Status", "Kehadiran", "Jumlah Tamu", "Dibuka", "Konfirmasi"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, g := range guests {
		phone := g.Phone
		if phone == "" {
			phone = "-"
		}
		attendance := g.Attendance
		if attendance == "" {
			attendance = "-"
		}
		count := "-"
		if g.GuestCount > 0 {
			count = strconv.Itoa(g.GuestCount)
		}
		row := []string{
			strconv.Itoa(i + 1),
			g.Name,
			phone,
			guestExportStatus(g),
			attendance,
			count,
			csvDate(g.OpenedAt),
			csvDate(g.RSVPAt),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render CSV: %w", err)
	}
	return buf.Bytes(), nil
}
