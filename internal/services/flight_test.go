package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umroh-system/internal/dto"
	apperrors "umroh-system/pkg/errors"
)

func TestParseDatetime(t *testing.T) {
	for _, value := range []string{
		"2026-03-15T08:30:00+07:00",
		"2026-03-15 08:30",
		"2026-03-15T08:30",
	} {
		parsed, err := parseDatetime(value)
		require.NoError(t, err, value)
		assert.Equal(t, 2026, parsed.Year())
		assert.Equal(t, time.March, parsed.Month())
	}

	_, err := parseDatetime("15/03/2026")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSegmentsFromDTO(t *testing.T) {
	t.Run("assigns parsed times", func(t *testing.T) {
		segments, err := segmentsFromDTO([]dto.FlightSegmentDTO{
			{
				DepartureCity:     "Jakarta",
				DepartureDatetime: "2026-03-15 08:30",
				ArrivalCity:       "Jeddah",
				ArrivalDatetime:   "2026-03-15 14:45",
			},
		})
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.True(t, segments[0].ArrivalDatetime.After(segments[0].DepartureDatetime))
	})

	t.Run("rejects arrival before departure", func(t *testing.T) {
		_, err := segmentsFromDTO([]dto.FlightSegmentDTO{
			{
				DepartureCity:     "Jakarta",
				DepartureDatetime: "2026-03-15 14:45",
				ArrivalCity:       "Jeddah",
				ArrivalDatetime:   "2026-03-15 08:30",
			},
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects unparseable datetime", func(t *testing.T) {
		_, err := segmentsFromDTO([]dto.FlightSegmentDTO{
			{
				DepartureCity:     "Jakarta",
				DepartureDatetime: "besok pagi",
				ArrivalCity:       "Jeddah",
				ArrivalDatetime:   "2026-03-15 08:30",
			},
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestNullDateFromPtr(t *testing.T) {
	nilResult, err := nullDateFromPtr(nil, "booking_date")
	require.NoError(t, err)
	assert.False(t, nilResult.Valid)

	value := "2026-03-15"
	result, err := nullDateFromPtr(&value, "booking_date")
	require.NoError(t, err)
	require.True(t, result.Valid)
	assert.Equal(t, 15, result.Time.Day())

	bad := "15-03-2026"
	_, err = nullDateFromPtr(&bad, "booking_date")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
