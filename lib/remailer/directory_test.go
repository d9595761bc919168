package remailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory() *Directory {
	dir := NewDirectory()
	dir.Add(&Remailer{Name: "paranoia", Email: "mix@paranoici.org", Caps: CapExit})
	dir.Add(&Remailer{Name: "dizum", Email: "remailer@dizum.com", Caps: CapMiddle | CapExit})
	dir.Add(&Remailer{Name: "austria", Email: "mixmaster@remailer.privacy.at", Caps: CapMiddle})
	return dir
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	dir := testDirectory()

	r, err := dir.Lookup("Paranoia")
	require.NoError(t, err)
	assert.Equal(t, "paranoia", r.Name)

	r, err = dir.Lookup("DIZUM")
	require.NoError(t, err)
	assert.Equal(t, "dizum", r.Name)
}

func TestLookupUnknownReturnsTypedError(t *testing.T) {
	dir := testDirectory()

	_, err := dir.Lookup("unknownname")
	require.Error(t, err)

	var unknown *UnknownRemailerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "unknownname", unknown.Name)
}

func TestEligibleFiltersByCapability(t *testing.T) {
	dir := testDirectory()

	exits := dir.Eligible(CapExit)
	require.Len(t, exits, 2)
	assert.Equal(t, "paranoia", exits[0].Name)
	assert.Equal(t, "dizum", exits[1].Name)

	middles := dir.Eligible(CapMiddle)
	require.Len(t, middles, 2)
	assert.Equal(t, "dizum", middles[0].Name)
	assert.Equal(t, "austria", middles[1].Name)
}

func TestEligibleOrderIsStable(t *testing.T) {
	dir := testDirectory()
	first := dir.Eligible(CapExit)
	second := dir.Eligible(CapExit)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestAddReplacesWithoutReordering(t *testing.T) {
	dir := testDirectory()
	dir.Add(&Remailer{Name: "Paranoia", Email: "new@paranoici.org", Caps: CapMiddle | CapExit})

	assert.Equal(t, 3, dir.Len())
	assert.Equal(t, []string{"Paranoia", "dizum", "austria"}, dir.Names())

	r, err := dir.Lookup("paranoia")
	require.NoError(t, err)
	assert.Equal(t, "new@paranoici.org", r.Email)
}
