package form

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MediBook/pkg/errors"
	"MediBook/pkg/geocode"
)

var defaultLoc = Location{Lat: 36.8065, Lng: 10.1815}

func TestMapClickWritesBackAddress(t *testing.T) {
	gc := geocode.NewMockClient()
	gc.ReverseResult = &geocode.Result{
		Lat: 36.8, Lng: 10.18,
		Components: geocode.Components{
			HouseNumber: "12",
			Road:        "Avenue Habib Bourguiba",
			City:        "Tunis",
			State:       "Tunis",
			Postcode:    "1001",
			Country:     "Tunisia",
		},
	}

	var sync AddressSync
	addr := Address{}
	err := sync.ApplyMapClick(context.Background(), gc, &addr, 36.8, 10.18)

	require.NoError(t, err)
	assert.Equal(t, "12 Avenue Habib Bourguiba", addr.StreetAddress)
	assert.Equal(t, "Tunis", addr.City)
	assert.Equal(t, "1001", addr.PostalCode)
	require.NotNil(t, addr.Location)
	assert.Equal(t, 36.8, addr.Location.Lat)
	assert.Equal(t, SourceMap, sync.Token)
}

func TestTextEditAfterMapClickIsSuppressed(t *testing.T) {
	gc := geocode.NewMockClient()
	gc.ReverseResult = &geocode.Result{
		Lat: 36.8, Lng: 10.18,
		Components: geocode.Components{Road: "Avenue Habib Bourguiba", City: "Tunis"},
	}

	var sync AddressSync
	addr := Address{}
	require.NoError(t, sync.ApplyMapClick(context.Background(), gc, &addr, 36.8, 10.18))

	// 反写触发的文本变更回声，不该再发起正向编码
	updated, err := sync.ApplyTextEdit(context.Background(), gc, &addr, defaultLoc)

	require.NoError(t, err)
	assert.False(t, updated)
	assert.Empty(t, gc.ForwardCalls)
	assert.Equal(t, SourceNone, sync.Token)

	// 回声被消费后，下一次真实编辑正常查询
	gc.ForwardResult = &geocode.Result{Lat: 35.82, Lng: 10.64}
	addr.City = "Sousse"
	updated, err = sync.ApplyTextEdit(context.Background(), gc, &addr, defaultLoc)

	require.NoError(t, err)
	assert.True(t, updated)
	require.Len(t, gc.ForwardCalls, 1)
	assert.Equal(t, 35.82, addr.Location.Lat)
}

func TestTextEditSkipsWhenStreetOrCityMissing(t *testing.T) {
	gc := geocode.NewMockClient()

	var sync AddressSync
	addr := Address{StreetAddress: "12 Avenue Habib Bourguiba"}
	updated, err := sync.ApplyTextEdit(context.Background(), gc, &addr, defaultLoc)

	require.NoError(t, err)
	assert.False(t, updated)
	assert.Empty(t, gc.ForwardCalls)
	assert.Nil(t, addr.Location)
}

func TestTextEditFallsBackToDefaultLocation(t *testing.T) {
	gc := geocode.NewMockClient()
	gc.ForwardErr = errors.GeocodeNoResult

	var sync AddressSync
	addr := Address{StreetAddress: "Nowhere 99", City: "Atlantis"}
	updated, err := sync.ApplyTextEdit(context.Background(), gc, &addr, defaultLoc)

	require.NoError(t, err)
	assert.True(t, updated)
	require.NotNil(t, addr.Location)
	assert.Equal(t, 36.8065, addr.Location.Lat)
	assert.Equal(t, 10.1815, addr.Location.Lng)
	assert.Equal(t, SourceNone, sync.Token)
}

func TestTextEditQueryIncludesAddressParts(t *testing.T) {
	gc := geocode.NewMockClient()
	gc.ForwardResult = &geocode.Result{Lat: 36.8, Lng: 10.18}

	var sync AddressSync
	addr := Address{
		StreetAddress: "12 Avenue Habib Bourguiba",
		City:          "Tunis",
		Country:       "Tunisia",
	}
	_, err := sync.ApplyTextEdit(context.Background(), gc, &addr, defaultLoc)

	require.NoError(t, err)
	require.Len(t, gc.ForwardCalls, 1)
	assert.Equal(t, "12 Avenue Habib Bourguiba, Tunis, Tunisia", gc.ForwardCalls[0])
}

func TestMapClickErrorResetsToken(t *testing.T) {
	gc := geocode.NewMockClient()
	gc.ReverseErr = errors.NetworkError

	var sync AddressSync
	addr := Address{}
	err := sync.ApplyMapClick(context.Background(), gc, &addr, 36.8, 10.18)

	require.Error(t, err)
	assert.Equal(t, SourceNone, sync.Token)
	assert.Nil(t, addr.Location)
}
