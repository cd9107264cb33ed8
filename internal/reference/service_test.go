package reference

import (
	"context"
	"errors"
	"testing"
	"time"

	"ongkir-gateway/internal/cachestore"
	"ongkir-gateway/internal/komerce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeoClient struct {
	calls   int
	regions []komerce.Region
	err     error

	lastParent string
}

func (f *fakeGeoClient) Provinces(ctx context.Context) ([]komerce.Region, error) {
	f.calls++
	f.lastParent = ""
	return f.regions, f.err
}

func (f *fakeGeoClient) Cities(ctx context.Context, provinceID string) ([]komerce.Region, error) {
	f.calls++
	f.lastParent = provinceID
	return f.regions, f.err
}

func (f *fakeGeoClient) Districts(ctx context.Context, cityID string) ([]komerce.Region, error) {
	f.calls++
	f.lastParent = cityID
	return f.regions, f.err
}

func (f *fakeGeoClient) Subdistricts(ctx context.Context, districtID string) ([]komerce.Region, error) {
	f.calls++
	f.lastParent = districtID
	return f.regions, f.err
}

func newStore(t *testing.T) *cachestore.MemoryStore {
	t.Helper()
	s := cachestore.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCacheKey(t *testing.T) {
	cases := []struct {
		kind    Kind
		parent  string
		want    string
		wantErr bool
	}{
		{KindProvinces, "", "provinces", false},
		{KindProvinces, "12", "provinces", false},
		{KindCities, "12", "cities_12", false},
		{KindCities, "", "", true},
		{KindDistricts, "607", "districts_607", false},
		{KindDistricts, "", "", true},
		{KindSubdistricts, "7041", "subdistricts_7041", false},
		{KindSubdistricts, "", "", true},
	}
	for _, tc := range cases {
		got, err := CacheKey(tc.kind, tc.parent)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidRequest, "%s/%q", tc.kind, tc.parent)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestLookupWriteThrough(t *testing.T) {
	client := &fakeGeoClient{regions: []komerce.Region{{ID: "12", Name: "Jawa Barat"}}}
	svc := NewService(newStore(t), client)

	regions, cached, err := svc.Lookup(context.Background(), KindProvinces, "")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, client.regions, regions)

	regions, cached, err = svc.Lookup(context.Background(), KindProvinces, "")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, client.regions, regions)
	assert.Equal(t, 1, client.calls, "second lookup must not reach upstream")
}

func TestLookupParentScopesTheKey(t *testing.T) {
	client := &fakeGeoClient{regions: []komerce.Region{{ID: "607", Name: "Kota Bandung"}}}
	svc := NewService(newStore(t), client)

	_, cached, err := svc.Lookup(context.Background(), KindCities, "12")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "12", client.lastParent)

	// A different province is a different key, so it misses.
	_, cached, err = svc.Lookup(context.Background(), KindCities, "13")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, client.calls)

	_, cached, err = svc.Lookup(context.Background(), KindCities, "12")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 2, client.calls)
}

func TestLookupInvalidKind(t *testing.T) {
	client := &fakeGeoClient{}
	svc := NewService(newStore(t), client)

	_, _, err := svc.Lookup(context.Background(), Kind("countries"), "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, client.calls)
}

func TestLookupUpstreamFailure(t *testing.T) {
	upstreamErr := errors.New("boom")
	client := &fakeGeoClient{err: upstreamErr}
	svc := NewService(newStore(t), client)

	_, _, err := svc.Lookup(context.Background(), KindProvinces, "")
	assert.ErrorIs(t, err, upstreamErr)
}

func TestLookupDistinctLevelsDoNotCollide(t *testing.T) {
	store := newStore(t)
	cities := &fakeGeoClient{regions: []komerce.Region{{ID: "607", Name: "Kota Bandung"}}}
	svc := NewService(store, cities)

	_, _, err := svc.Lookup(context.Background(), KindCities, "12")
	require.NoError(t, err)

	// Same parent id at a different level lives in a different category.
	districts := &fakeGeoClient{regions: []komerce.Region{{ID: "7041", Name: "Coblong"}}}
	svc2 := NewService(store, districts)
	regions, cached, err := svc2.Lookup(context.Background(), KindDistricts, "12")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, districts.regions, regions)
}
