package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/quickserve/models"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		changed  bool
		invalid  bool
	}{
		{models.StatusPlaced, models.StatusPreparing, true, false},
		{models.StatusPreparing, models.StatusReady, true, false},
		{models.StatusReady, models.StatusServed, true, false},
		{models.StatusPlaced, models.StatusCancelled, true, false},
		{models.StatusPreparing, models.StatusCancelled, true, false},

		{models.StatusPlaced, models.StatusPlaced, false, false},
		{models.StatusPreparing, models.StatusPreparing, false, false},
		{models.StatusServed, models.StatusServed, false, false},
		{models.StatusCancelled, models.StatusCancelled, false, false},

		{models.StatusPlaced, models.StatusReady, false, true},
		{models.StatusPlaced, models.StatusServed, false, true},
		{models.StatusPreparing, models.StatusServed, false, true},
		{models.StatusPreparing, models.StatusPlaced, false, true},
		{models.StatusReady, models.StatusPreparing, false, true},
		{models.StatusReady, models.StatusCancelled, false, true},
		{models.StatusServed, models.StatusCancelled, false, true},
		{models.StatusServed, models.StatusPlaced, false, true},
		{models.StatusCancelled, models.StatusPlaced, false, true},
		{models.StatusCancelled, models.StatusPreparing, false, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			changed, err := models.CheckTransition("o-1", tc.from, tc.to)
			assert.Equal(t, tc.changed, changed)
			if !tc.invalid {
				assert.NoError(t, err)
				return
			}
			var it *models.InvalidTransitionError
			require.ErrorAs(t, err, &it)
			assert.Equal(t, "o-1", it.OrderID)
			assert.Equal(t, tc.from, it.From)
			assert.Equal(t, tc.to, it.To)
		})
	}
}

func TestCheckTransitionUnknownTarget(t *testing.T) {
	changed, err := models.CheckTransition("o-1", models.StatusPlaced, "delivered")
	assert.False(t, changed)
	assert.True(t, models.IsValidation(err))
}

func TestTransitionsNeverMoveBackwards(t *testing.T) {
	all := []models.OrderStatus{
		models.StatusPlaced, models.StatusPreparing, models.StatusReady,
		models.StatusServed, models.StatusCancelled,
	}
	for _, from := range all {
		for _, to := range all {
			changed, err := models.CheckTransition("o-1", from, to)
			if err != nil || !changed {
				continue
			}
			assert.False(t, from.IsTerminal(), "left terminal status %s", from)
			if to != models.StatusCancelled {
				next, ok := from.Next()
				require.True(t, ok)
				assert.Equal(t, next, to)
			}
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	st, err := models.ParseOrderStatus("  Preparing ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, st)

	_, err = models.ParseOrderStatus("on-the-way")
	assert.True(t, models.IsValidation(err))

	_, err = models.ParseOrderStatus("")
	assert.True(t, models.IsValidation(err))
}

func TestStatusHelpers(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.StatusPlaced, models.StatusPreparing, models.StatusReady},
		models.ActiveStatuses())

	assert.True(t, models.StatusServed.IsTerminal())
	assert.True(t, models.StatusCancelled.IsTerminal())
	assert.False(t, models.StatusReady.IsTerminal())

	assert.True(t, models.StatusPreparing.Cancellable())
	assert.False(t, models.StatusReady.Cancellable())

	_, ok := models.StatusServed.Next()
	assert.False(t, ok)
	_, ok = models.StatusCancelled.Next()
	assert.False(t, ok)
}
