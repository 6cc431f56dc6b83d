package database

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestSeedCreatesDefaultFiltersOnce(t *testing.T) {
	is, ctx, r := testSetupDateFilterRepository(t)

	is.NoErr(r.Seed(ctx))
	is.NoErr(r.Seed(ctx))

	filters, err := r.GetActive(ctx)
	is.NoErr(err)
	is.Equal(len(filters), 4)
}

func TestGetActiveReturnsFiltersInOrder(t *testing.T) {
	is, ctx, r := testSetupDateFilterRepository(t)

	is.NoErr(r.Seed(ctx))

	filters, err := r.GetActive(ctx)
	is.NoErr(err)

	for i := 1; i < len(filters); i++ {
		is.True(filters[i-1].SortOrder <= filters[i].SortOrder)
	}

	is.Equal(filters[0].Value, "10s")
	is.Equal(filters[len(filters)-1].Value, "5m")
}

func testSetupDateFilterRepository(t *testing.T) (*is.I, context.Context, DateFilterRepository) {
	is := is.New(t)
	ctx := context.Background()

	r, err := NewDateFilterRepository(NewSQLiteConnector(zerolog.Logger{}))
	is.NoErr(err)

	return is, ctx, r
}
