package invitation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nikahlink/models"
)

func TestExportGuestsCSV(t *testing.T) {
	svc, _, invID := rsvpFixture(t)

	_, _, err := svc.AddGuest(context.Background(), "u1", invID, GuestInput{Name: "Budi", Phone: "0812345678"})
	require.NoError(t, err)
	_, err = svc.SubmitRSVP(context.Background(), invID, RSVPInput{
		Name: "Budi", Attendance: models.AttendanceHadir, GuestCount: 3,
	})
	require.NoError(t, err)
	_, _, err = svc.AddGuest(context.Background(), "u1", invID, GuestInput{Name: "Siti"})
	require.NoError(t, err)

	out, err := svc.ExportGuestsCSV("u1", invID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "No,Nama,No. WhatsApp,Status,Kehadiran,Jumlah Tamu,Dibuka,Konfirmasi", lines[0])

	body := strings.Join(lines[1:], "\n")
	assert.Contains(t, body, "Budi,0812345678,Konfirmasi,hadir,3")
	assert.Contains(t, body, "Siti,-,Pending,-,-,-,-")
}

func TestExportGuestsCSVRequiresOwnership(t *testing.T) {
	svc, _, invID := rsvpFixture(t)

	_, err := svc.ExportGuestsCSV("intruder", invID)
	assert.ErrorIs(t, err, ErrNotOwner)
}
